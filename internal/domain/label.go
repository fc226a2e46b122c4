package domain

// Label is a named tag that prompts can be associated with. Names are unique.
type Label struct {
	ID   int64
	Name string
}
