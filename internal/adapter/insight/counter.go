package insight

import "sort"

// counter 记录首次出现顺序的频次计数器
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

// topNames 按频次降序取前 n 个标签，稳定排序保持首次出现顺序
func (c *counter) topNames(n int) []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	sort.SliceStable(names, func(i, j int) bool {
		return c.counts[names[i]] > c.counts[names[j]]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
