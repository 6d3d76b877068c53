package posts

import "time"

// Post es una entrada del tablero de comunidad. Content es HTML del editor.
type Post struct {
	ID      string
	Title   string
	Content string

	AuthorID       string
	AuthorEmail    string
	AuthorNickname string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary es lo que muestra el listado: sin el HTML completo.
type Summary struct {
	Post
	Thumbnail string
	Excerpt   string
}
