package study

import "pagemark-backend/internal/models"

// ResolveChapter returns the title of the first listed chapter whose page
// range contains page. When ranges overlap, the earliest one wins; an empty
// chapter list or an uncovered page resolves to nothing.
func ResolveChapter(page int, chapters []models.Chapter) (string, bool) {
	for _, ch := range chapters {
		if page >= ch.StartPage && page <= ch.EndPage {
			return ch.Title, true
		}
	}
	return "", false
}
