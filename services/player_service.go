package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/engine"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/repositories"
)

type CreatePlayerInput struct {
	Name      string             `json:"name"`
	BirthDate *string            `json:"birth_date,omitempty"`
	Override  *models.AgeBracket `json:"age_override,omitempty"`
	Tier      models.SkillTier   `json:"tier"`
	Club      *string            `json:"club,omitempty"`
	Email     *string            `json:"email,omitempty"`
	Phone     *string            `json:"phone,omitempty"`
}

type UpdatePlayerInput struct {
	Name      *string            `json:"name,omitempty"`
	BirthDate *string            `json:"birth_date,omitempty"`
	Override  *models.AgeBracket `json:"age_override,omitempty"`
	Tier      *models.SkillTier  `json:"tier,omitempty"`
	Club      *string            `json:"club,omitempty"`
	Email     *string            `json:"email,omitempty"`
	Phone     *string            `json:"phone,omitempty"`
}

// PlayerView is a player together with their derived age bracket.
type PlayerView struct {
	models.Player
	AgeBracket models.AgeBracket `json:"age_bracket"`
}

type PlayerService interface {
	List(ctx context.Context) ([]PlayerView, error)
	Get(ctx context.Context, id string) (*PlayerView, error)
	Create(ctx context.Context, input CreatePlayerInput) (*PlayerView, error)
	Update(ctx context.Context, id string, input UpdatePlayerInput) (*PlayerView, error)
	Delete(ctx context.Context, id string) error
	CreateTeam(ctx context.Context, member1ID, member2ID string) (*PlayerView, error)
}

type playerService struct {
	documents  repositories.DocumentRepository
	results    repositories.ResultRepository
	classifier *engine.Classifier
}

func NewPlayerService(
	documents repositories.DocumentRepository,
	results repositories.ResultRepository,
	classifier *engine.Classifier,
) PlayerService {
	return &playerService{
		documents:  documents,
		results:    results,
		classifier: classifier,
	}
}

func (s *playerService) view(p models.Player) PlayerView {
	return PlayerView{Player: p, AgeBracket: s.classifier.Classify(&p)}
}

func (s *playerService) List(ctx context.Context) ([]PlayerView, error) {
	var players []models.Player
	if _, _, err := loadInto(ctx, s.documents, docPlayers, &players); err != nil {
		return nil, err
	}
	views := make([]PlayerView, 0, len(players))
	for _, p := range players {
		views = append(views, s.view(p))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views, nil
}

func (s *playerService) Get(ctx context.Context, id string) (*PlayerView, error) {
	var players []models.Player
	if _, _, err := loadInto(ctx, s.documents, docPlayers, &players); err != nil {
		return nil, err
	}
	for _, p := range players {
		if p.ID == id {
			v := s.view(p)
			return &v, nil
		}
	}
	return nil, ErrPlayerNotFound
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*PlayerView, error) {
	if input.Name == "" {
		return nil, ErrPlayerNameRequired
	}
	if !input.Tier.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSkillTier, input.Tier)
	}
	if input.Override != nil && !input.Override.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAgeBracket, *input.Override)
	}

	player := models.Player{
		ID:        uuid.NewString(),
		Name:      input.Name,
		BirthDate: input.BirthDate,
		Override:  input.Override,
		Tier:      input.Tier,
		Club:      input.Club,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: time.Now().UTC(),
	}

	_, err := mutateDocument(ctx, s.documents, docPlayers, func(players []models.Player) ([]models.Player, error) {
		return append(players, player), nil
	})
	if err != nil {
		return nil, err
	}
	v := s.view(player)
	return &v, nil
}

func (s *playerService) Update(ctx context.Context, id string, input UpdatePlayerInput) (*PlayerView, error) {
	if input.Tier != nil && !input.Tier.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSkillTier, *input.Tier)
	}
	if input.Override != nil && *input.Override != "" && !input.Override.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAgeBracket, *input.Override)
	}

	var updated *models.Player
	_, err := mutateDocument(ctx, s.documents, docPlayers, func(players []models.Player) ([]models.Player, error) {
		for i := range players {
			if players[i].ID != id {
				continue
			}
			p := &players[i]
			if input.Name != nil {
				if *input.Name == "" {
					return nil, ErrPlayerNameRequired
				}
				p.Name = *input.Name
			}
			if input.BirthDate != nil {
				p.BirthDate = input.BirthDate
			}
			if input.Override != nil {
				if *input.Override == "" {
					p.Override = nil // clear the manual override
				} else {
					p.Override = input.Override
				}
			}
			if input.Tier != nil {
				p.Tier = *input.Tier
			}
			if input.Club != nil {
				p.Club = input.Club
			}
			if input.Email != nil {
				p.Email = input.Email
			}
			if input.Phone != nil {
				p.Phone = input.Phone
			}
			copied := *p
			updated = &copied
			return players, nil
		}
		return nil, ErrPlayerNotFound
	})
	if err != nil {
		return nil, err
	}
	v := s.view(*updated)
	return &v, nil
}

// Delete removes the player and cascades into their result history.
func (s *playerService) Delete(ctx context.Context, id string) error {
	_, err := mutateDocument(ctx, s.documents, docPlayers, func(players []models.Player) ([]models.Player, error) {
		for i := range players {
			if players[i].ID == id {
				return append(players[:i], players[i+1:]...), nil
			}
		}
		return nil, ErrPlayerNotFound
	})
	if err != nil {
		return err
	}
	return s.results.DeleteByPlayer(ctx, id)
}

// CreateTeam registers a doubles pairing as a synthetic player carrying
// the first member's birth date and tier.
func (s *playerService) CreateTeam(ctx context.Context, member1ID, member2ID string) (*PlayerView, error) {
	if member1ID == "" || member2ID == "" || member1ID == member2ID {
		return nil, ErrTeamMembersRequired
	}

	var team models.Player
	_, err := mutateDocument(ctx, s.documents, docPlayers, func(players []models.Player) ([]models.Player, error) {
		var m1, m2 *models.Player
		for i := range players {
			switch players[i].ID {
			case member1ID:
				m1 = &players[i]
			case member2ID:
				m2 = &players[i]
			}
		}
		if m1 == nil || m2 == nil {
			return nil, ErrPlayerNotFound
		}

		team = models.Player{
			ID:        uuid.NewString(),
			Name:      fmt.Sprintf("%s / %s", m1.Name, m2.Name),
			BirthDate: m1.BirthDate,
			Override:  m1.Override,
			Tier:      m1.Tier,
			IsTeam:    true,
			MemberIDs: []string{m1.ID, m2.ID},
			CreatedAt: time.Now().UTC(),
		}
		return append(players, team), nil
	})
	if err != nil {
		return nil, err
	}
	v := s.view(team)
	return &v, nil
}
