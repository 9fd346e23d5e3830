package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/snapfeed/internal/common"
	"github.com/dmitrijs2005/snapfeed/internal/dbx"
	"github.com/dmitrijs2005/snapfeed/internal/logging"
	"github.com/dmitrijs2005/snapfeed/internal/server/models"
	"github.com/dmitrijs2005/snapfeed/internal/server/repositories/repomanager"
)

// SearchResult is one row of a friend search: a matched user annotated with
// the number of friends they share with the actor.
type SearchResult struct {
	User               *models.User
	MutualFriendsCount int
}

// FriendService implements the friend graph: searching users with
// mutual-friend annotation and creating directed friend edges.
//
// "Mutual friends" of two users is the intersection of their outgoing edge
// target sets, i.e. third parties both of them point to. It says nothing
// about whether the two users are friends with each other.
type FriendService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewFriendService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *FriendService {
	return &FriendService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "friend_service"),
	}
}

// Search finds users whose name or email contains query case-insensitively,
// excluding the actor, each annotated with a mutual-friend count. A failure
// while counting one candidate degrades that candidate to 0 and never aborts
// the batch.
func (s *FriendService) Search(ctx context.Context, actorID string, query string) ([]*SearchResult, error) {
	if query == "" {
		return nil, common.ErrorValidation
	}

	userRepo := s.repomanager.Users(s.db)

	if _, err := userRepo.GetByID(ctx, actorID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	candidates, err := userRepo.Search(ctx, query, actorID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	actorFriends, err := s.outgoingSet(ctx, actorID)
	if err != nil {
		// without the actor's edge set every count degrades to 0
		s.logger.Error(ctx, "error listing actor friends", "user_id", actorID, "error", err)
		actorFriends = map[string]struct{}{}
	}

	results := make([]*SearchResult, 0, len(candidates))
	for _, candidate := range candidates {
		count, err := s.mutualFriendsCount(ctx, actorFriends, candidate.ID)
		if err != nil {
			s.logger.Warn(ctx, "error counting mutual friends", "candidate_id", candidate.ID, "error", err)
			count = 0
		}
		results = append(results, &SearchResult{User: candidate, MutualFriendsCount: count})
	}

	return results, nil
}

// AddFriend creates the directed edge (actorID, friendID). The reciprocal
// edge is never created; the counterpart has to add the actor separately.
func (s *FriendService) AddFriend(ctx context.Context, actorID string, friendID string) (*models.FriendEdge, error) {
	if friendID == "" || friendID == actorID {
		return nil, common.ErrorValidation
	}

	if _, err := s.repomanager.Users(s.db).GetByID(ctx, friendID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	edge := &models.FriendEdge{UserID: actorID, FriendID: friendID}

	// check-then-insert runs in one transaction; the unique index on the
	// ordered pair still backstops concurrent inserts
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Friends(tx)

		exists, err := repoTx.Exists(ctx, actorID, friendID)
		if err != nil {
			return fmt.Errorf("error checking edge: %v", err)
		}
		if exists {
			return common.ErrorAlreadyExists
		}

		edge, err = repoTx.Create(ctx, edge)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, common.ErrorInternal
	}

	return edge, nil
}

func (s *FriendService) outgoingSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	edges, err := s.repomanager.Friends(s.db).ListOutgoing(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		set[e.FriendID] = struct{}{}
	}
	return set, nil
}

func (s *FriendService) mutualFriendsCount(ctx context.Context, actorFriends map[string]struct{}, candidateID string) (int, error) {
	candidateFriends, err := s.outgoingSet(ctx, candidateID)
	if err != nil {
		return 0, err
	}

	count := 0
	for id := range candidateFriends {
		if _, ok := actorFriends[id]; ok {
			count++
		}
	}
	return count, nil
}
