package types

import (
	"slices"
	"strconv"
	"strings"
)

// flatten expands nested unions and returns a sorted, duplicate-free set.
func (in *Interner) flatten(members []TypeID) []TypeID {
	out := make([]TypeID, 0, len(members))
	for _, m := range members {
		if info, ok := in.UnionInfo(m); ok {
			out = append(out, info.Members...)
			continue
		}
		out = append(out, m)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func unionKey(set []TypeID) string {
	var sb strings.Builder
	for i, m := range set {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(m), 10))
	}
	return sb.String()
}

// IsMember reports whether t is literally one of the members of union u.
func (in *Interner) IsMember(t, u TypeID) bool {
	info, ok := in.UnionInfo(u)
	if !ok {
		return false
	}
	_, found := slices.BinarySearch(info.Members, t)
	return found
}
