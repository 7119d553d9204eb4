package service

// CommentSanitizer strips HTML and script content from user-supplied text
// before it is persisted.
type CommentSanitizer interface {
	Sanitize(input string) string
}
