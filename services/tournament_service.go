package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/repositories"
)

type TournamentService interface {
	List(ctx context.Context) ([]models.Tournament, error)
	Get(ctx context.Context, id string) (*models.Tournament, error)
	Create(ctx context.Context, name string) (*models.Tournament, error)
	AddRound(ctx context.Context, tournamentID, roundName string, date *time.Time) (*models.Tournament, error)
	Delete(ctx context.Context, id string) error
}

type tournamentService struct {
	documents repositories.DocumentRepository
	results   repositories.ResultRepository
}

func NewTournamentService(
	documents repositories.DocumentRepository,
	results repositories.ResultRepository,
) TournamentService {
	return &tournamentService{documents: documents, results: results}
}

func (s *tournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	if _, _, err := loadInto(ctx, s.documents, docTournaments, &tournaments); err != nil {
		return nil, err
	}
	sort.Slice(tournaments, func(i, j int) bool {
		return tournaments[i].CreatedAt.Before(tournaments[j].CreatedAt)
	})
	return tournaments, nil
}

func (s *tournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	tournaments, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tournaments {
		if tournaments[i].ID == id {
			return &tournaments[i], nil
		}
	}
	return nil, ErrTournamentNotFound
}

func (s *tournamentService) Create(ctx context.Context, name string) (*models.Tournament, error) {
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	tournament := models.Tournament{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := mutateDocument(ctx, s.documents, docTournaments, func(tournaments []models.Tournament) ([]models.Tournament, error) {
		return append(tournaments, tournament), nil
	})
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *tournamentService) AddRound(ctx context.Context, tournamentID, roundName string, date *time.Time) (*models.Tournament, error) {
	var updated *models.Tournament
	_, err := mutateDocument(ctx, s.documents, docTournaments, func(tournaments []models.Tournament) ([]models.Tournament, error) {
		for i := range tournaments {
			if tournaments[i].ID != tournamentID {
				continue
			}
			tournaments[i].Rounds = append(tournaments[i].Rounds, models.Round{
				ID:   uuid.NewString(),
				Name: roundName,
				Date: date,
			})
			copied := tournaments[i]
			updated = &copied
			return tournaments, nil
		}
		return nil, ErrTournamentNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the tournament, its fixtures document and, cascading,
// every player's results for it.
func (s *tournamentService) Delete(ctx context.Context, id string) error {
	_, err := mutateDocument(ctx, s.documents, docTournaments, func(tournaments []models.Tournament) ([]models.Tournament, error) {
		for i := range tournaments {
			if tournaments[i].ID == id {
				return append(tournaments[:i], tournaments[i+1:]...), nil
			}
		}
		return nil, ErrTournamentNotFound
	})
	if err != nil {
		return err
	}
	if err := s.results.DeleteByTournament(ctx, id); err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, fixturesDocKey(id)); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}
