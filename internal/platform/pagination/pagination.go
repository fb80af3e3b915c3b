// Package pagination implementa el ventaneo determinista sobre un resultado
// ya filtrado. El pager no impone orden propio: la secuencia queda en el
// orden que entregó el store (ninguna clave de orden estable garantizada).
package pagination

import "strconv"

// DefaultPageSize es el tamaño de página del deployment de referencia.
const DefaultPageSize = 5

type Page[T any] struct {
	Items []T
	// Total es el tamaño del resultado completo, calculado antes de truncar.
	Total   int
	HasMore bool
	// Next es el número de página de continuación; válido solo si HasMore.
	Next int
}

// Window recorta la página pedida (1-based). Una página fuera de rango no es
// error: devuelve slice vacío con el mismo Total.
func Window[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(items)

	start := (page - 1) * size
	if start >= total {
		return Page[T]{Items: []T{}, Total: total}
	}

	rest := items[start:]
	if len(rest) > size {
		return Page[T]{
			Items:   rest[:size],
			Total:   total,
			HasMore: true,
			Next:    page + 1,
		}
	}

	return Page[T]{Items: rest, Total: total}
}

// ParsePage interpreta el query param "page"; vacío o inválido = página 1.
func ParsePage(raw string) int {
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
