package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
)

type ResultServiceTestSuite struct {
	suite.Suite
	docs     *fakeDocumentRepository
	results  *fakeResultRepository
	notifier *recordingNotifier
	service  ResultService
	ctx      context.Context
}

func (s *ResultServiceTestSuite) SetupTest() {
	s.docs = newFakeDocumentRepository()
	s.results = newFakeResultRepository()
	s.notifier = &recordingNotifier{}
	s.service = NewResultService(s.results, s.docs, s.notifier)
	s.ctx = context.Background()

	s.docs.put(docPlayers, []models.Player{
		{ID: "p1", Name: "Anna Adler", Tier: models.TierA},
		{ID: "p2", Name: "Ben Berger", Tier: models.TierA},
		{ID: "p3", Name: "Carla Curt", Tier: models.TierB},
	})
}

func TestResultServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ResultServiceTestSuite))
}

func (s *ResultServiceTestSuite) record(fixtureID, playerID, opponentID, score string, lastObserved *string) (*RecordMatchInput, error) {
	input := RecordMatchInput{
		TournamentID:      "t1",
		FixtureID:         fixtureID,
		PlayerID:          playerID,
		OpponentID:        opponentID,
		Score:             score,
		Mode:              models.ModeSets,
		LastObservedScore: lastObserved,
	}
	_, err := s.service.RecordMatch(s.ctx, input)
	return &input, err
}

func (s *ResultServiceTestSuite) TestRecordMatchWritesMirroredPair() {
	_, err := s.record("fx1", "p1", "p2", "6:4 6:3", nil)
	s.Require().NoError(err)

	mine, err := s.service.GetPlayerResult(s.ctx, "t1", "p1")
	s.Require().NoError(err)
	s.Require().Len(mine.Matches, 1)
	s.Equal("6:4 6:3", mine.Matches[0].Score)
	s.True(mine.Matches[0].IsWin)
	s.Equal("Ben Berger", mine.Matches[0].OpponentName)

	theirs, err := s.service.GetPlayerResult(s.ctx, "t1", "p2")
	s.Require().NoError(err)
	s.Require().Len(theirs.Matches, 1)
	s.Equal("4:6 3:6", theirs.Matches[0].Score)
	s.False(theirs.Matches[0].IsWin)
	s.Equal("Anna Adler", theirs.Matches[0].OpponentName)
	s.Equal(mine.Matches[0].PlayedAt, theirs.Matches[0].PlayedAt)
}

func (s *ResultServiceTestSuite) TestRecordMatchBroadcastsToTournamentRoom() {
	_, err := s.record("fx1", "p1", "p2", "6:4 6:3", nil)
	s.Require().NoError(err)

	s.Require().Len(s.notifier.events, 1)
	s.Equal(EventResultRecorded, s.notifier.events[0].Type)
	s.Equal([]string{"t1"}, s.notifier.rooms)
}

func (s *ResultServiceTestSuite) TestRecordMatchRejectsTierMismatch() {
	_, err := s.record("fx1", "p1", "p3", "6:4 6:3", nil)
	s.ErrorIs(err, ErrTierMismatch)
}

func (s *ResultServiceTestSuite) TestRecordMatchRejectsMalformedScore() {
	_, err := s.record("fx1", "p1", "p2", "sechs zu vier", nil)
	s.ErrorIs(err, ErrScoreMalformed)
}

func (s *ResultServiceTestSuite) TestRecordMatchRejectsUnknownMode() {
	_, err := s.service.RecordMatch(s.ctx, RecordMatchInput{
		TournamentID: "t1",
		FixtureID:    "fx1",
		PlayerID:     "p1",
		OpponentID:   "p2",
		Score:        "6:4",
		Mode:         "bestof9",
	})
	s.ErrorIs(err, ErrInvalidScoringMode)
}

func (s *ResultServiceTestSuite) TestRecordMatchRejectsSelfPlay() {
	_, err := s.record("fx1", "p1", "p1", "6:4 6:3", nil)
	s.ErrorIs(err, ErrSamePlayerTwice)
}

func (s *ResultServiceTestSuite) TestRecordMatchRejectsUnknownOpponent() {
	_, err := s.record("fx1", "p1", "ghost", "6:4 6:3", nil)
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *ResultServiceTestSuite) TestConcurrentRewriteWithoutObservationConflicts() {
	_, err := s.record("fx1", "p1", "p2", "6:4 6:3", nil)
	s.Require().NoError(err)

	// Second operator never saw the stored score.
	_, err = s.record("fx1", "p1", "p2", "6:2 6:2", nil)
	s.ErrorIs(err, ErrResultConflict)
}

func (s *ResultServiceTestSuite) TestObservedScoreMayBeCorrected() {
	_, err := s.record("fx1", "p1", "p2", "6:4 6:3", nil)
	s.Require().NoError(err)

	observed := "6:4 6:3"
	_, err = s.record("fx1", "p1", "p2", "4:6 6:3 10:8", &observed)
	s.Require().NoError(err)

	mine, err := s.service.GetPlayerResult(s.ctx, "t1", "p1")
	s.Require().NoError(err)
	s.Require().Len(mine.Matches, 1)
	s.Equal("4:6 6:3 10:8", mine.Matches[0].Score)

	theirs, err := s.service.GetPlayerResult(s.ctx, "t1", "p2")
	s.Require().NoError(err)
	s.Equal("6:4 3:6 8:10", theirs.Matches[0].Score)
}

func (s *ResultServiceTestSuite) TestResubmitSameScoreIsIdempotent() {
	_, err := s.record("fx1", "p1", "p2", "6:4 6:3", nil)
	s.Require().NoError(err)
	_, err = s.record("fx1", "p1", "p2", "6:4 6:3", nil)
	s.Require().NoError(err)

	mine, err := s.service.GetPlayerResult(s.ctx, "t1", "p1")
	s.Require().NoError(err)
	s.Len(mine.Matches, 1)
}

func (s *ResultServiceTestSuite) TestDistinctFixturesAgainstSameOpponentCoexist() {
	_, err := s.record("fx1", "p1", "p2", "6:4 6:3", nil)
	s.Require().NoError(err)
	_, err = s.record("fx2", "p1", "p2", "2:6 4:6", nil)
	s.Require().NoError(err)

	mine, err := s.service.GetPlayerResult(s.ctx, "t1", "p1")
	s.Require().NoError(err)
	s.Len(mine.Matches, 2)
}

func (s *ResultServiceTestSuite) TestDeleteMatchRemovesBothSides() {
	_, err := s.record("fx1", "p1", "p2", "6:4 6:3", nil)
	s.Require().NoError(err)

	err = s.service.DeleteMatch(s.ctx, DeleteMatchInput{
		TournamentID: "t1", FixtureID: "fx1", PlayerID: "p1", OpponentID: "p2",
	})
	s.Require().NoError(err)

	mine, err := s.service.GetPlayerResult(s.ctx, "t1", "p1")
	s.Require().NoError(err)
	s.Empty(mine.Matches)
	theirs, err := s.service.GetPlayerResult(s.ctx, "t1", "p2")
	s.Require().NoError(err)
	s.Empty(theirs.Matches)
}

func (s *ResultServiceTestSuite) TestDeleteUnknownFixtureFails() {
	err := s.service.DeleteMatch(s.ctx, DeleteMatchInput{
		TournamentID: "t1", FixtureID: "nope", PlayerID: "p1", OpponentID: "p2",
	})
	s.ErrorIs(err, ErrNotFound)
}
