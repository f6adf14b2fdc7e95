// Package e2e provides end-to-end tests with a seeded example corpus and multiple queries.
package e2e

import (
	"github.com/hyperjump/kaiseki/internal/models"
)

// QueryTestCase defines a query snippet and the category its retrieved
// examples are expected to come from.
type QueryTestCase struct {
	Code             string
	LanguageHint     string
	ExpectedCategory string
	Description      string
}

// Corpus holds seed documents and query test cases.
type Corpus struct {
	Documents []*models.DocumentInput
	TestCases []QueryTestCase
}

// BuildCorpus returns a corpus of code examples spanning several categories.
// Each query test case reuses the vocabulary of exactly one category so the
// retrieval pipeline can be asserted against it.
func BuildCorpus() *Corpus {
	docs := []*models.DocumentInput{
		{
			Code:        "def quicksort(arr):\n    if len(arr) <= 1:\n        return arr\n    pivot = arr[0]\n    less = [x for x in arr[1:] if x < pivot]\n    more = [x for x in arr[1:] if x >= pivot]\n    return quicksort(less) + [pivot] + quicksort(more)",
			Language:    "python",
			Category:    "algorithms",
			Subcategory: "sorting",
			Difficulty:  models.DifficultyMedium,
			Explanation: "A recursive quicksort. It picks the first element as pivot, partitions the rest into smaller and larger values, sorts each partition recursively, and concatenates the results.",
		},
		{
			Code:        "def bubble_sort(arr):\n    n = len(arr)\n    for i in range(n):\n        for j in range(n - i - 1):\n            if arr[j] > arr[j + 1]:\n                arr[j], arr[j + 1] = arr[j + 1], arr[j]\n    return arr",
			Language:    "python",
			Category:    "algorithms",
			Subcategory: "sorting",
			Difficulty:  models.DifficultyEasy,
			Explanation: "Bubble sort repeatedly walks the list and swaps adjacent elements that are out of order, bubbling the largest value to the end on each pass.",
		},
		{
			Code:        "def binary_search(arr, target):\n    lo, hi = 0, len(arr) - 1\n    while lo <= hi:\n        mid = (lo + hi) // 2\n        if arr[mid] == target:\n            return mid\n        if arr[mid] < target:\n            lo = mid + 1\n        else:\n            hi = mid - 1\n    return -1",
			Language:    "python",
			Category:    "algorithms",
			Subcategory: "searching",
			Difficulty:  models.DifficultyMedium,
			Explanation: "Binary search halves the sorted range on every comparison until the target is found or the range is empty.",
		},
		{
			Code:        "SELECT u.name, COUNT(o.id) AS order_count\nFROM users u\nJOIN orders o ON o.user_id = u.id\nGROUP BY u.name\nHAVING COUNT(o.id) > 5",
			Language:    "sql",
			Category:    "databases",
			Subcategory: "aggregation",
			Difficulty:  models.DifficultyMedium,
			Explanation: "Joins users to their orders, groups rows per user, counts orders in each group, and keeps only users with more than five orders.",
		},
		{
			Code:        "CREATE INDEX idx_orders_user_id ON orders (user_id)",
			Language:    "sql",
			Category:    "databases",
			Subcategory: "indexing",
			Difficulty:  models.DifficultyEasy,
			Explanation: "Creates a secondary index on the user_id column so lookups and joins on that column avoid full table scans.",
		},
		{
			Code:        "func worker(jobs <-chan int, results chan<- int) {\n    for j := range jobs {\n        results <- j * 2\n    }\n}",
			Language:    "go",
			Category:    "concurrency",
			Subcategory: "channels",
			Difficulty:  models.DifficultyMedium,
			Explanation: "A worker goroutine reads jobs from an input channel until it is closed, doubling each value and sending it on the results channel.",
		},
		{
			Code:        "var mu sync.Mutex\nvar counter int\n\nfunc increment() {\n    mu.Lock()\n    defer mu.Unlock()\n    counter++\n}",
			Language:    "go",
			Category:    "concurrency",
			Subcategory: "locks",
			Difficulty:  models.DifficultyEasy,
			Explanation: "Guards a shared counter with a mutex. The deferred unlock runs on every return path, so the lock is never leaked.",
		},
	}

	cases := []QueryTestCase{
		{
			Code:             "def quicksort(items):\n    if len(items) <= 1:\n        return items\n    pivot = items[0]\n    return quicksort([x for x in items[1:] if x < pivot]) + [pivot] + quicksort([x for x in items[1:] if x >= pivot])",
			LanguageHint:     "python",
			ExpectedCategory: "algorithms",
			Description:      "a quicksort variant should retrieve sorting examples",
		},
		{
			Code:             "SELECT name, COUNT(id) FROM users GROUP BY name",
			LanguageHint:     "sql",
			ExpectedCategory: "databases",
			Description:      "an aggregate query should retrieve database examples",
		},
		{
			Code:             "func worker(jobs <-chan int, out chan<- int) {\n    for j := range jobs {\n        out <- j + 1\n    }\n}",
			LanguageHint:     "go",
			ExpectedCategory: "concurrency",
			Description:      "a channel worker should retrieve concurrency examples",
		},
	}

	return &Corpus{Documents: docs, TestCases: cases}
}
