package models

type Identifiable interface {
	GetId() int
}

// NextId returns max(existing ids, 0) + 1.
func NextId[T Identifiable](items []T) int {
	maxId := 0
	for _, item := range items {
		if id := item.GetId(); id > maxId {
			maxId = id
		}
	}
	return maxId + 1
}
