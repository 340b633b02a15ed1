package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/repositories"
)

type TournamentServiceTestSuite struct {
	suite.Suite
	docs    *fakeDocumentRepository
	results *fakeResultRepository
	service TournamentService
	ctx     context.Context
}

func (s *TournamentServiceTestSuite) SetupTest() {
	s.docs = newFakeDocumentRepository()
	s.results = newFakeResultRepository()
	s.service = NewTournamentService(s.docs, s.results)
	s.ctx = context.Background()
}

func TestTournamentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TournamentServiceTestSuite))
}

func (s *TournamentServiceTestSuite) TestCreateListAndGet() {
	first, err := s.service.Create(s.ctx, "Clubmeisterschaft 2026")
	s.Require().NoError(err)
	second, err := s.service.Create(s.ctx, "Wintercup")
	s.Require().NoError(err)

	tournaments, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(tournaments, 2)
	s.Equal(first.ID, tournaments[0].ID)
	s.Equal(second.ID, tournaments[1].ID)

	got, err := s.service.Get(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal("Wintercup", got.Name)
}

func (s *TournamentServiceTestSuite) TestCreateRequiresName() {
	_, err := s.service.Create(s.ctx, "")
	s.ErrorIs(err, ErrTournamentNameRequired)
}

func (s *TournamentServiceTestSuite) TestGetUnknownTournament() {
	_, err := s.service.Get(s.ctx, "missing")
	s.ErrorIs(err, ErrTournamentNotFound)
}

func (s *TournamentServiceTestSuite) TestAddRound() {
	created, err := s.service.Create(s.ctx, "Clubmeisterschaft 2026")
	s.Require().NoError(err)

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	updated, err := s.service.AddRound(s.ctx, created.ID, "Runde 1", &date)
	s.Require().NoError(err)
	s.Require().Len(updated.Rounds, 1)
	s.NotEmpty(updated.Rounds[0].ID)
	s.Equal("Runde 1", updated.Rounds[0].Name)
	s.Equal(&date, updated.Rounds[0].Date)

	updated, err = s.service.AddRound(s.ctx, created.ID, "Runde 2", nil)
	s.Require().NoError(err)
	s.Len(updated.Rounds, 2)

	_, err = s.service.AddRound(s.ctx, "missing", "Runde 1", nil)
	s.ErrorIs(err, ErrTournamentNotFound)
}

func (s *TournamentServiceTestSuite) TestDeleteCascadesFixturesAndResults() {
	created, err := s.service.Create(s.ctx, "Clubmeisterschaft 2026")
	s.Require().NoError(err)
	keep, err := s.service.Create(s.ctx, "Wintercup")
	s.Require().NoError(err)

	s.docs.put(fixturesDocKey(created.ID), []models.Fixture{{ID: "fx1", AID: "p1", BID: "p2"}})
	s.results.results[created.ID+"/p1"] = &models.TournamentResult{
		ID: created.ID + "/p1", TournamentID: created.ID, PlayerID: "p1",
	}
	s.results.results[keep.ID+"/p1"] = &models.TournamentResult{
		ID: keep.ID + "/p1", TournamentID: keep.ID, PlayerID: "p1",
	}

	s.Require().NoError(s.service.Delete(s.ctx, created.ID))

	_, err = s.service.Get(s.ctx, created.ID)
	s.ErrorIs(err, ErrTournamentNotFound)

	_, err = s.docs.Load(s.ctx, fixturesDocKey(created.ID))
	s.ErrorIs(err, repositories.ErrDocumentNotFound)

	gone, err := s.results.ListByTournament(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Empty(gone)
	kept, err := s.results.ListByTournament(s.ctx, keep.ID)
	s.Require().NoError(err)
	s.Len(kept, 1)
}

func (s *TournamentServiceTestSuite) TestDeleteWithoutFixturesDocument() {
	created, err := s.service.Create(s.ctx, "Clubmeisterschaft 2026")
	s.Require().NoError(err)
	s.Require().NoError(s.service.Delete(s.ctx, created.ID))
}

func (s *TournamentServiceTestSuite) TestDeleteUnknownTournament() {
	s.ErrorIs(s.service.Delete(s.ctx, "missing"), ErrTournamentNotFound)
}
