package httpapi

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/snapfeed/internal/common"
	"github.com/dmitrijs2005/snapfeed/internal/server/models"
)

type editPostRequest struct {
	Description string `json:"description"`
}

type postResponse struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Photos      []string `json:"photo"`
	UserID      string   `json:"userId"`
	CreatedAt   string   `json:"createdAt"`
	Created     string   `json:"created"`
}

func toPostResponse(p *models.Post) postResponse {
	return postResponse{
		ID:          p.ID,
		Description: p.Description,
		Photos:      p.Photos,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		Created:     models.Age(p.CreatedAt, time.Now()),
	}
}

func (s *HTTPServer) handleListPosts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 10)

	result, err := s.posts.List(c.UserContext(), page, pageSize)
	if err != nil {
		return err
	}

	posts := make([]postResponse, 0, len(result.Posts))
	for _, p := range result.Posts {
		posts = append(posts, toPostResponse(p))
	}

	return c.JSON(fiber.Map{
		"posts":      posts,
		"totalCount": result.TotalCount,
		"totalPages": result.TotalPages,
	})
}

func (s *HTTPServer) handleGetPost(c *fiber.Ctx) error {
	post, err := s.posts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"post": toPostResponse(post)})
}

func (s *HTTPServer) handleCreatePost(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return common.ErrorValidation
	}

	files := form.File["photos"]
	if len(files) == 0 {
		return common.ErrorValidation
	}

	if err := os.MkdirAll(s.tmpDir, 0o755); err != nil {
		return err
	}

	// the service removes every saved file once the batch settles
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := filepath.Join(s.tmpDir, uuid.New().String()+filepath.Ext(f.Filename))
		if err := c.SaveFile(f, p); err != nil {
			for _, saved := range paths {
				_ = os.Remove(saved)
			}
			return err
		}
		paths = append(paths, p)
	}

	post, err := s.posts.Create(c.UserContext(), actor, c.FormValue("description"), paths)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    toPostResponse(post),
	})
}

func (s *HTTPServer) handleEditPost(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}

	var body editPostRequest
	if err := c.BodyParser(&body); err != nil {
		return common.ErrorValidation
	}

	post, err := s.posts.Edit(c.UserContext(), actor, c.Params("id"), body.Description)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Post updated successfully", "post": toPostResponse(post)})
}
