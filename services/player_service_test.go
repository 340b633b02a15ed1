package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/engine"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
)

type PlayerServiceTestSuite struct {
	suite.Suite
	docs    *fakeDocumentRepository
	results *fakeResultRepository
	service PlayerService
	ctx     context.Context
}

func (s *PlayerServiceTestSuite) SetupTest() {
	s.docs = newFakeDocumentRepository()
	s.results = newFakeResultRepository()
	s.service = NewPlayerService(s.docs, s.results, engine.NewClassifier(2026))
	s.ctx = context.Background()
}

func TestPlayerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PlayerServiceTestSuite))
}

func (s *PlayerServiceTestSuite) TestCreateClassifiesByBirthDate() {
	birth := "2012-03-14"
	created, err := s.service.Create(s.ctx, CreatePlayerInput{
		Name:      "Finn Falk",
		BirthDate: &birth,
		Tier:      models.TierA,
	})
	s.Require().NoError(err)
	s.NotEmpty(created.ID)
	s.Equal(models.BracketU15, created.AgeBracket)

	got, err := s.service.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal(models.BracketU15, got.AgeBracket)
}

func (s *PlayerServiceTestSuite) TestCreateWithoutBirthDateIsOpen() {
	created, err := s.service.Create(s.ctx, CreatePlayerInput{Name: "Anna Adler", Tier: models.TierB})
	s.Require().NoError(err)
	s.Equal(models.BracketOpen, created.AgeBracket)
}

func (s *PlayerServiceTestSuite) TestCreateValidation() {
	_, err := s.service.Create(s.ctx, CreatePlayerInput{Tier: models.TierA})
	s.ErrorIs(err, ErrPlayerNameRequired)

	_, err = s.service.Create(s.ctx, CreatePlayerInput{Name: "Anna", Tier: "D"})
	s.ErrorIs(err, ErrInvalidSkillTier)

	bad := models.AgeBracket("U99")
	_, err = s.service.Create(s.ctx, CreatePlayerInput{Name: "Anna", Tier: models.TierA, Override: &bad})
	s.ErrorIs(err, ErrInvalidAgeBracket)
}

func (s *PlayerServiceTestSuite) TestListSortsByName() {
	for _, name := range []string{"Carla Curt", "Anna Adler", "Ben Berger"} {
		_, err := s.service.Create(s.ctx, CreatePlayerInput{Name: name, Tier: models.TierA})
		s.Require().NoError(err)
	}
	players, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("Anna Adler", players[0].Name)
	s.Equal("Ben Berger", players[1].Name)
	s.Equal("Carla Curt", players[2].Name)
}

func (s *PlayerServiceTestSuite) TestUpdateAppliesPartialChanges() {
	created, err := s.service.Create(s.ctx, CreatePlayerInput{Name: "Anna Adler", Tier: models.TierA})
	s.Require().NoError(err)

	name := "Anna Albrecht"
	tier := models.TierB
	updated, err := s.service.Update(s.ctx, created.ID, UpdatePlayerInput{Name: &name, Tier: &tier})
	s.Require().NoError(err)
	s.Equal("Anna Albrecht", updated.Name)
	s.Equal(models.TierB, updated.Tier)

	empty := ""
	_, err = s.service.Update(s.ctx, created.ID, UpdatePlayerInput{Name: &empty})
	s.ErrorIs(err, ErrPlayerNameRequired)
}

func (s *PlayerServiceTestSuite) TestUpdateClearsOverrideWithEmptyValue() {
	override := models.BracketU18
	created, err := s.service.Create(s.ctx, CreatePlayerInput{
		Name:     "Ben Berger",
		Tier:     models.TierA,
		Override: &override,
	})
	s.Require().NoError(err)
	s.Equal(models.BracketU18, created.AgeBracket)

	cleared := models.AgeBracket("")
	updated, err := s.service.Update(s.ctx, created.ID, UpdatePlayerInput{Override: &cleared})
	s.Require().NoError(err)
	s.Nil(updated.Override)
	s.Equal(models.BracketOpen, updated.AgeBracket)
}

func (s *PlayerServiceTestSuite) TestUpdateUnknownPlayer() {
	name := "Nobody"
	_, err := s.service.Update(s.ctx, "missing", UpdatePlayerInput{Name: &name})
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *PlayerServiceTestSuite) TestDeleteCascadesIntoResults() {
	created, err := s.service.Create(s.ctx, CreatePlayerInput{Name: "Anna Adler", Tier: models.TierA})
	s.Require().NoError(err)
	other, err := s.service.Create(s.ctx, CreatePlayerInput{Name: "Ben Berger", Tier: models.TierA})
	s.Require().NoError(err)

	s.results.results["t1/"+created.ID] = &models.TournamentResult{
		ID: "t1/" + created.ID, TournamentID: "t1", PlayerID: created.ID,
	}
	s.results.results["t1/"+other.ID] = &models.TournamentResult{
		ID: "t1/" + other.ID, TournamentID: "t1", PlayerID: other.ID,
	}

	s.Require().NoError(s.service.Delete(s.ctx, created.ID))

	_, err = s.service.Get(s.ctx, created.ID)
	s.ErrorIs(err, ErrPlayerNotFound)

	mine, err := s.results.ListByPlayer(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Empty(mine)
	theirs, err := s.results.ListByPlayer(s.ctx, other.ID)
	s.Require().NoError(err)
	s.Len(theirs, 1)
}

func (s *PlayerServiceTestSuite) TestDeleteUnknownPlayer() {
	err := s.service.Delete(s.ctx, "missing")
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *PlayerServiceTestSuite) TestCreateTeamCombinesMembers() {
	birth := "2012-03-14"
	m1, err := s.service.Create(s.ctx, CreatePlayerInput{Name: "Anna Adler", BirthDate: &birth, Tier: models.TierB})
	s.Require().NoError(err)
	m2, err := s.service.Create(s.ctx, CreatePlayerInput{Name: "Ben Berger", Tier: models.TierA})
	s.Require().NoError(err)

	team, err := s.service.CreateTeam(s.ctx, m1.ID, m2.ID)
	s.Require().NoError(err)
	s.Equal("Anna Adler / Ben Berger", team.Name)
	s.True(team.IsTeam)
	s.Equal([]string{m1.ID, m2.ID}, team.MemberIDs)
	// The pairing carries the first member's birth date and tier.
	s.Equal(models.TierB, team.Tier)
	s.Equal(models.BracketU15, team.AgeBracket)
}

func (s *PlayerServiceTestSuite) TestCreateTeamValidation() {
	m1, err := s.service.Create(s.ctx, CreatePlayerInput{Name: "Anna Adler", Tier: models.TierA})
	s.Require().NoError(err)

	_, err = s.service.CreateTeam(s.ctx, m1.ID, m1.ID)
	s.ErrorIs(err, ErrTeamMembersRequired)

	_, err = s.service.CreateTeam(s.ctx, m1.ID, "missing")
	s.ErrorIs(err, ErrPlayerNotFound)
}
