package v1

// FavoriteSet is a set of book identifiers. It is kept as a slice so the
// persisted order matches insertion order, but membership is all that matters.
type FavoriteSet struct {
	ids []ID
}

// NewFavoriteSet builds a set from ids, dropping duplicates and empty ids
// while keeping the first occurrence.
func NewFavoriteSet(ids ...ID) FavoriteSet {
	s := FavoriteSet{ids: make([]ID, 0, len(ids))}
	for _, id := range ids {
		if id == "" || s.Contains(id) {
			continue
		}
		s.ids = append(s.ids, id)
	}
	return s
}

func (s FavoriteSet) Contains(id ID) bool {
	for _, x := range s.ids {
		if x == id {
			return true
		}
	}
	return false
}

func (s FavoriteSet) Len() int { return len(s.ids) }

// IDs returns a copy of the members in insertion order.
func (s FavoriteSet) IDs() []ID {
	out := make([]ID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Strings is the persisted form.
func (s FavoriteSet) Strings() []string {
	out := make([]string, len(s.ids))
	for i, id := range s.ids {
		out[i] = string(id)
	}
	return out
}

func (s FavoriteSet) Clone() FavoriteSet {
	return FavoriteSet{ids: s.IDs()}
}

// With returns a copy of the set including id.
func (s FavoriteSet) With(id ID) FavoriteSet {
	if s.Contains(id) {
		return s.Clone()
	}
	return FavoriteSet{ids: append(s.IDs(), id)}
}

// Without returns a copy of the set excluding id.
func (s FavoriteSet) Without(id ID) FavoriteSet {
	out := FavoriteSet{ids: make([]ID, 0, len(s.ids))}
	for _, x := range s.ids {
		if x != id {
			out.ids = append(out.ids, x)
		}
	}
	return out
}

// Index builds a lookup table for membership tests over large views.
func (s FavoriteSet) Index() map[ID]struct{} {
	idx := make(map[ID]struct{}, len(s.ids))
	for _, id := range s.ids {
		idx[id] = struct{}{}
	}
	return idx
}
