package pager

const DefaultSize = 10

type Page[T any] struct {
	Items   []T
	Cursor  int
	MaxPage int
	Total   int
	// Start and End are the one-based positions of the first and last item.
	Start int
	End   int
}

func (s *Page[T]) HasPrev() bool {
	return s.Cursor > 0
}

func (s *Page[T]) HasNext() bool {
	return s.Cursor < s.MaxPage
}

func MaxPage(total int, size int) int {
	if size <= 0 {
		size = DefaultSize
	}
	if total <= 0 {
		return 0
	}
	return (total+size-1)/size - 1
}

// Paginate slices items into the page at cursor, clamping cursor into [0, MaxPage].
func Paginate[T any](items []T, cursor int, size int) *Page[T] {
	if size <= 0 {
		size = DefaultSize
	}
	total := len(items)
	maxPage := MaxPage(total, size)
	if cursor > maxPage {
		cursor = maxPage
	}
	if cursor < 0 {
		cursor = 0
	}
	start := cursor * size
	end := min(start+size, total)
	p := &Page[T]{
		Items:   items[start:end],
		Cursor:  cursor,
		MaxPage: maxPage,
		Total:   total,
	}
	if end > start {
		p.Start = start + 1
		p.End = end
	}
	return p
}
