package successor

// forEachCombination calls handle with every r-combination of 0..n-1 in lexicographic order.
// it returns false as soon as handle does.
func forEachCombination(n, r int, handle func(comb []int) bool) bool {
	if r < 0 || r > n {
		return true
	}
	comb := make([]int, r)
	for i := range comb {
		comb[i] = i
	}
	for {
		if !handle(comb) {
			return false
		}

		// rightmost position that can still move forward
		i := r - 1
		for i >= 0 && comb[i] == n-r+i {
			i--
		}
		if i < 0 {
			return true
		}
		comb[i]++
		for j := i + 1; j < r; j++ {
			comb[j] = comb[j-1] + 1
		}
	}
}

// forEachPermutation calls handle with every ordered selection of r distinct items, in
// lexicographic order of item position. it returns false as soon as handle does.
func forEachPermutation(items []int, r int, handle func(perm []int) bool) bool {
	if r < 0 || r > len(items) {
		return true
	}
	perm := make([]int, 0, r)
	used := make([]bool, len(items))

	var rec func() bool
	rec = func() bool {
		if len(perm) == r {
			return handle(perm)
		}
		for i, item := range items {
			if used[i] {
				continue
			}
			used[i] = true
			perm = append(perm, item)
			ok := rec()
			perm = perm[:len(perm)-1]
			used[i] = false
			if !ok {
				return false
			}
		}
		return true
	}
	return rec()
}

func binomial(n, r int) int {
	if r < 0 || r > n {
		return 0
	}
	res := 1
	for i := 1; i <= r; i++ {
		res = res * (n - r + i) / i
	}
	return res
}

func permutationCount(n, r int) int {
	if r < 0 || r > n {
		return 0
	}
	res := 1
	for i := 0; i < r; i++ {
		res *= n - i
	}
	return res
}

// Count number of children of a state with n vehicles and u undelivered packages,
// sum over s=1..n of C(n,s)*P(u,s).
func Count(n, u int) int {
	total := 0
	for s := 1; s <= n; s++ {
		total += binomial(n, s) * permutationCount(u, s)
	}
	return total
}
