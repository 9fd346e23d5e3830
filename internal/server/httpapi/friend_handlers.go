package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/snapfeed/internal/common"
	"github.com/dmitrijs2005/snapfeed/internal/server/services"
)

type addFriendRequest struct {
	FriendID string `json:"friendId"`
}

type searchUserResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	MutualFriendsCount int    `json:"mutualFriendsCount"`
}

func toSearchUserResponse(r *services.SearchResult) searchUserResponse {
	return searchUserResponse{
		ID:                 r.User.ID,
		Name:               r.User.Name,
		Email:              r.User.Email,
		MutualFriendsCount: r.MutualFriendsCount,
	}
}

func (s *HTTPServer) handleSearchUsers(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}

	results, err := s.friends.Search(c.UserContext(), actor, c.Query("searchQuery"))
	if err != nil {
		return err
	}

	users := make([]searchUserResponse, 0, len(results))
	for _, r := range results {
		users = append(users, toSearchUserResponse(r))
	}

	return c.JSON(fiber.Map{"users": users})
}

func (s *HTTPServer) handleAddFriend(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}

	var body addFriendRequest
	if err := c.BodyParser(&body); err != nil {
		return common.ErrorValidation
	}

	if _, err := s.friends.AddFriend(c.UserContext(), actor, body.FriendID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Friend added successfully"})
}
