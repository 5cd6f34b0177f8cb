package favorites

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/byxorna/shelf/pkg/db/fs"
	"github.com/byxorna/shelf/pkg/db/memory"
	"github.com/byxorna/shelf/pkg/types/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stored(t *testing.T, kv *memory.Store) []string {
	t.Helper()
	raw, err := kv.Get(DefaultKey)
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal(raw, &ids))
	return ids
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	s := New(memory.New())
	assert.Equal(t, 0, s.Load().Len())
	assert.Equal(t, 0, s.Count())
}

func TestLoadCorruptContentIsEmpty(t *testing.T) {
	testcases := map[string]string{
		"not json":      `{{{`,
		"object":        `{"a":1}`,
		"numbers":       `[1,2,3]`,
		"mixed":         `["A",2]`,
		"bare string":   `"A"`,
		"truncated":     `["A","B"`,
		"empty content": ``,
	}
	for name, content := range testcases {
		t.Run(name, func(t *testing.T) {
			kv := memory.New()
			require.NoError(t, kv.Set(DefaultKey, []byte(content)))
			s := New(kv)
			assert.Equal(t, 0, s.Load().Len())
		})
	}
}

func TestLoadNullIsEmpty(t *testing.T) {
	kv := memory.New()
	require.NoError(t, kv.Set(DefaultKey, []byte(`null`)))
	assert.Equal(t, 0, New(kv).Load().Len())
}

func TestLoadDropsDuplicates(t *testing.T) {
	kv := memory.New()
	require.NoError(t, kv.Set(DefaultKey, []byte(`["A","B","A"]`)))
	s := New(kv)
	assert.Equal(t, []v1.ID{"A", "B"}, s.Load().IDs())
}

func TestToggleTwiceRestoresSet(t *testing.T) {
	kv := memory.New()
	s := New(kv)
	s.Load()

	set := s.Toggle("A")
	assert.Equal(t, []v1.ID{"A"}, set.IDs())
	assert.Equal(t, []string{"A"}, stored(t, kv))

	set = s.Toggle("A")
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, []string{}, stored(t, kv))
}

func TestToggleIsSelfInverseForEveryID(t *testing.T) {
	kv := memory.New()
	require.NoError(t, kv.Set(DefaultKey, []byte(`["A","B","C"]`)))
	s := New(kv)
	before := s.Load()

	for _, id := range []v1.ID{"A", "B", "C", "D", ""} {
		s.Toggle(id)
		after := s.Toggle(id)
		assert.ElementsMatch(t, before.IDs(), after.IDs(), "toggling %q twice", id)
	}
}

func TestDiskAgreesWithMemoryAfterEveryMutation(t *testing.T) {
	kv := memory.New()
	s := New(kv)
	s.Load()

	steps := []func() v1.FavoriteSet{
		func() v1.FavoriteSet { return s.Toggle("A") },
		func() v1.FavoriteSet { return s.Toggle("B") },
		func() v1.FavoriteSet { return s.Remove("A") },
		func() v1.FavoriteSet { return s.Toggle("C") },
		func() v1.FavoriteSet { return s.Toggle("B") },
	}
	for i, step := range steps {
		set := step()
		assert.Equal(t, set.Strings(), stored(t, kv), "step %d", i)
		assert.Equal(t, set.Len(), s.Count(), "step %d", i)

		// a fresh store over the same backend sees the same set
		assert.Equal(t, set.IDs(), New(kv).Load().IDs(), "step %d", i)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	kv := memory.New()
	require.NoError(t, kv.Set(DefaultKey, []byte(`["A"]`)))
	s := New(kv)
	s.Load()
	writes := kv.Writes()

	set := s.Remove("Z")
	assert.Equal(t, []v1.ID{"A"}, set.IDs())
	assert.Equal(t, writes, kv.Writes())
	assert.NoError(t, s.LastWriteErr())
}

func TestWriteFailureKeepsInMemoryToggle(t *testing.T) {
	kv := memory.New()
	kv.FailWrites = true
	s := New(kv)
	s.Load()

	set := s.Toggle("A")
	assert.True(t, set.Contains("A"))
	assert.True(t, s.Contains("A"))
	assert.Equal(t, 1, s.Count())
	assert.Error(t, s.LastWriteErr())
	assert.Equal(t, v1.StatusError, s.Status())

	kv.FailWrites = false
	s.Toggle("B")
	assert.NoError(t, s.LastWriteErr())
	assert.Equal(t, v1.StatusOK, s.Status())
}

func TestStatusFromBackend(t *testing.T) {
	kv, err := fs.New(t.TempDir(), false, nil)
	require.NoError(t, err)
	s := New(kv)
	s.Load()
	s.Toggle("A")
	assert.Equal(t, v1.StatusOK, s.Status())

	// the backend's state wins over the last write
	require.NoError(t, os.Chmod(kv.Directory, 0500))
	defer os.Chmod(kv.Directory, 0700)
	s.Toggle("B")
	if s.LastWriteErr() == nil {
		t.Skip("directory permissions are not enforced for this user")
	}
	assert.Equal(t, v1.StatusError, s.Status())
}

func TestReturnedSetIsACopy(t *testing.T) {
	s := New(memory.New())
	s.Load()
	set := s.Toggle("A")
	_ = set.Without("A")
	assert.True(t, s.Contains("A"))
}

func TestCustomKey(t *testing.T) {
	kv := memory.New()
	s := New(kv, WithKey("shelf-favorites"))
	s.Load()
	s.Toggle("A")

	_, err := kv.Get(DefaultKey)
	assert.Error(t, err)
	raw, err := kv.Get("shelf-favorites")
	require.NoError(t, err)
	assert.JSONEq(t, `["A"]`, string(raw))
}
