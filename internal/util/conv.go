package util

import (
	"sort"
	"strconv"
	"strings"
)

// JoinIndexList сериализует набор индексов в строку вида "0,2,5":
// сортировка по возрастанию, дубликаты отбрасываются.
func JoinIndexList(indices []int) string {
	norm := NormalizeIndexList(indices)
	parts := make([]string, len(norm))
	for i, v := range norm {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// ParseIndexList разбирает строку "0,2,5"; пустые элементы игнорируются.
func ParseIndexList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return NormalizeIndexList(out), nil
}

// NormalizeIndexList сортирует индексы и убирает повторы.
func NormalizeIndexList(indices []int) []int {
	if len(indices) == 0 {
		return []int{}
	}
	seen := make(map[int]bool, len(indices))
	out := make([]int, 0, len(indices))
	for _, v := range indices {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

// EqualIndexSets — строгое равенство множеств: те же элементы, ничего
// лишнего. Частичное совпадение равенством не считается.
func EqualIndexSets(a, b []int) bool {
	an := NormalizeIndexList(a)
	bn := NormalizeIndexList(b)
	if len(an) != len(bn) {
		return false
	}
	for i := range an {
		if an[i] != bn[i] {
			return false
		}
	}
	return true
}
