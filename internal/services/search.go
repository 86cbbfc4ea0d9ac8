package services

import (
	"context"
	"fmt"

	"github.com/ahumphries/campusnet/internal/models"
)

type SearchService struct {
	db DBConn
}

func NewSearchService(db DBConn) *SearchService {
	return &SearchService{db: db}
}

// Search matches usernames, published post descriptions, and research paper
// titles, case insensitively, anywhere in the text.
func (s *SearchService) Search(ctx context.Context, query string) (*models.SearchResults, error) {
	pattern := "%" + query + "%"

	results := &models.SearchResults{
		Users:    []models.UserSearchResult{},
		Posts:    []models.PostSearchResult{},
		Research: []models.ResearchSearchResult{},
	}

	rows, err := s.db.Query(ctx,
		"SELECT username FROM users WHERE username ILIKE $1",
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user models.UserSearchResult
		if err := rows.Scan(&user.Username); err != nil {
			return nil, fmt.Errorf("scanning user result: %w", err)
		}
		results.Users = append(results.Users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user results: %w", err)
	}

	postRows, err := s.db.Query(ctx,
		"SELECT description FROM posts WHERE description ILIKE $1 AND is_published = TRUE",
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("searching posts: %w", err)
	}
	defer postRows.Close()

	for postRows.Next() {
		var post models.PostSearchResult
		if err := postRows.Scan(&post.Description); err != nil {
			return nil, fmt.Errorf("scanning post result: %w", err)
		}
		results.Posts = append(results.Posts, post)
	}
	if err := postRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating post results: %w", err)
	}

	paperRows, err := s.db.Query(ctx,
		"SELECT title FROM research WHERE title ILIKE $1",
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("searching research: %w", err)
	}
	defer paperRows.Close()

	for paperRows.Next() {
		var paper models.ResearchSearchResult
		if err := paperRows.Scan(&paper.Title); err != nil {
			return nil, fmt.Errorf("scanning research result: %w", err)
		}
		results.Research = append(results.Research, paper)
	}
	if err := paperRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating research results: %w", err)
	}

	return results, nil
}
