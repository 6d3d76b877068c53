package comments

import "time"

type Comment struct {
	ID     string
	PostID string

	Content string

	AuthorID       string
	AuthorNickname string
	AvatarURL      string // copia del avatar al momento de comentar

	CreatedAt time.Time
	UpdatedAt time.Time
}
