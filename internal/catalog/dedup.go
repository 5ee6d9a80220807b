package catalog

import "course-catalog/internal/domain"

// DedupModules keeps the first module of every exact title and drops later
// duplicates along with their topics. Near-duplicates are kept.
func DedupModules(mods []domain.Module) []domain.Module {
	seen := make(map[string]bool, len(mods))
	out := make([]domain.Module, 0, len(mods))
	for _, m := range mods {
		if seen[m.Title] {
			continue
		}
		seen[m.Title] = true
		out = append(out, m)
	}
	return out
}

// DedupLabs is DedupModules for labs.
func DedupLabs(labs []domain.Lab) []domain.Lab {
	seen := make(map[string]bool, len(labs))
	out := make([]domain.Lab, 0, len(labs))
	for _, l := range labs {
		if seen[l.Title] {
			continue
		}
		seen[l.Title] = true
		out = append(out, l)
	}
	return out
}

// uniqueOrders makes ordinals pairwise distinct in place. The first holder of
// an ordinal keeps it; later holders get max+1. It returns how many moved.
func uniqueOrders(orders []*int) int {
	max := 0
	for _, o := range orders {
		if *o > max {
			max = *o
		}
	}
	seen := make(map[int]bool, len(orders))
	moved := 0
	for _, o := range orders {
		if *o > 0 && !seen[*o] {
			seen[*o] = true
			continue
		}
		max++
		*o = max
		seen[max] = true
		moved++
	}
	return moved
}

func uniqueModuleOrders(mods []domain.Module) int {
	ptrs := make([]*int, len(mods))
	for i := range mods {
		ptrs[i] = &mods[i].Order
	}
	return uniqueOrders(ptrs)
}

func uniqueLabOrders(labs []domain.Lab) int {
	ptrs := make([]*int, len(labs))
	for i := range labs {
		ptrs[i] = &labs[i].Order
	}
	return uniqueOrders(ptrs)
}
