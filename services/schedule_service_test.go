package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/engine"
	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
)

type ScheduleServiceTestSuite struct {
	suite.Suite
	docs     *fakeDocumentRepository
	notifier *recordingNotifier
	service  ScheduleService
	ctx      context.Context
}

func (s *ScheduleServiceTestSuite) SetupTest() {
	s.docs = newFakeDocumentRepository()
	s.notifier = &recordingNotifier{}
	s.service = NewScheduleService(s.docs, engine.NewClassifier(2026), s.notifier)
	s.ctx = context.Background()

	u15 := "2012-03-14"
	s.docs.put(docPlayers, []models.Player{
		{ID: "p1", Name: "Anna Adler", Tier: models.TierA},
		{ID: "p2", Name: "Ben Berger", Tier: models.TierA},
		{ID: "p3", Name: "Carla Curt", Tier: models.TierA},
		{ID: "p4", Name: "Dora Dietz", Tier: models.TierA},
		{ID: "p5", Name: "Emil Ernst", Tier: models.TierB},
		{ID: "p6", Name: "Finn Falk", Tier: models.TierA, BirthDate: &u15},
	})
}

func TestScheduleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ScheduleServiceTestSuite))
}

func (s *ScheduleServiceTestSuite) TestGenerateFixturesDoubleRoundRobinForSmallGroup() {
	fixtures, err := s.service.GenerateFixtures(s.ctx, GenerateFixturesInput{
		TournamentID: "t1",
		AgeBracket:   models.BracketOpen,
		Tier:         models.TierA,
	})
	s.Require().NoError(err)

	// Four eligible open tier A players, small enough for a double round
	// robin: every pair meets twice.
	s.Len(fixtures, 12)
	stored, err := s.service.ListFixtures(s.ctx, "t1")
	s.Require().NoError(err)
	s.Len(stored, 12)

	s.Require().NotEmpty(s.notifier.events)
	s.Equal(EventFixturesGenerated, s.notifier.events[0].Type)
}

func (s *ScheduleServiceTestSuite) TestGenerateFixturesExcludesOtherTiersAndBrackets() {
	fixtures, err := s.service.GenerateFixtures(s.ctx, GenerateFixturesInput{
		TournamentID: "t1",
		AgeBracket:   models.BracketOpen,
		Tier:         models.TierA,
	})
	s.Require().NoError(err)

	for _, fx := range fixtures {
		s.NotEqual("p5", fx.AID)
		s.NotEqual("p5", fx.BID)
		s.NotEqual("p6", fx.AID)
		s.NotEqual("p6", fx.BID)
	}
}

func (s *ScheduleServiceTestSuite) TestExplicitPlayersMayPlayUpButNotDown() {
	// The U15 player is allowed in the open draw.
	_, err := s.service.GenerateFixtures(s.ctx, GenerateFixturesInput{
		TournamentID: "t1",
		AgeBracket:   models.BracketOpen,
		Tier:         models.TierA,
		PlayerIDs:    []string{"p1", "p6"},
	})
	s.Require().NoError(err)

	// An open player cannot be scheduled in a junior draw.
	_, err = s.service.GenerateFixtures(s.ctx, GenerateFixturesInput{
		TournamentID: "t1",
		AgeBracket:   models.BracketU15,
		Tier:         models.TierA,
		PlayerIDs:    []string{"p1", "p6"},
	})
	s.ErrorIs(err, ErrBracketNotAllowed)
}

func (s *ScheduleServiceTestSuite) TestExplicitPlayersRejectTierMismatch() {
	_, err := s.service.GenerateFixtures(s.ctx, GenerateFixturesInput{
		TournamentID: "t1",
		AgeBracket:   models.BracketOpen,
		Tier:         models.TierA,
		PlayerIDs:    []string{"p1", "p5"},
	})
	s.ErrorIs(err, ErrTierMismatch)
}

func (s *ScheduleServiceTestSuite) TestGenerateFixturesNeedsTwoPlayers() {
	_, err := s.service.GenerateFixtures(s.ctx, GenerateFixturesInput{
		TournamentID: "t1",
		AgeBracket:   models.BracketOpen,
		Tier:         models.TierB,
	})
	s.ErrorIs(err, ErrNotEnoughParticipants)
}

func (s *ScheduleServiceTestSuite) TestRescheduleAndWithdrawFixture() {
	fixtures, err := s.service.GenerateFixtures(s.ctx, GenerateFixturesInput{
		TournamentID: "t1",
		AgeBracket:   models.BracketOpen,
		Tier:         models.TierA,
		PlayerIDs:    []string{"p1", "p2"},
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(fixtures)

	venue := "Platz 3"
	updated, err := s.service.RescheduleFixture(s.ctx, "t1", fixtures[0].ID, nil, &venue)
	s.Require().NoError(err)
	s.Equal(&venue, updated.Venue)

	err = s.service.WithdrawFixture(s.ctx, "t1", fixtures[0].ID)
	s.Require().NoError(err)

	stored, err := s.service.ListFixtures(s.ctx, "t1")
	s.Require().NoError(err)
	s.Len(stored, len(fixtures)-1)

	err = s.service.WithdrawFixture(s.ctx, "t1", fixtures[0].ID)
	s.ErrorIs(err, ErrFixtureNotFound)
}

func (s *ScheduleServiceTestSuite) TestBuildAndAdvanceKnockout() {
	tree, err := s.service.BuildKnockout(s.ctx, BuildBracketInput{
		AgeBracket:   models.BracketOpen,
		Tier:         models.TierA,
		TournamentID: "t1",
	})
	s.Require().NoError(err)
	s.Equal(models.BracketKnockout, tree.Type)
	s.Require().Len(tree.Rounds, 2)
	s.Len(tree.Rounds[0], 2)

	winner := tree.Rounds[0][0].A
	s.Require().NotNil(winner)
	advanced, err := s.service.AdvanceKnockout(s.ctx, models.BracketOpen, models.TierA, 0, 0, *winner)
	s.Require().NoError(err)
	s.Equal(winner, advanced.Rounds[0][0].Winner)
	s.Equal(winner, advanced.Rounds[1][0].A)

	// The advance is persisted, not just returned.
	reloaded, err := s.service.GetBracket(s.ctx, models.BracketOpen, models.TierA)
	s.Require().NoError(err)
	s.Equal(winner, reloaded.Rounds[1][0].A)
}

func (s *ScheduleServiceTestSuite) TestAdvanceWithoutKnockoutFails() {
	_, err := s.service.AdvanceKnockout(s.ctx, models.BracketU12, models.TierC, 0, 0, "p1")
	s.ErrorIs(err, ErrKnockoutMissing)
}

func (s *ScheduleServiceTestSuite) TestGroupStageLifecycle() {
	stage, err := s.service.GenerateGroups(s.ctx, GenerateGroupsInput{
		AgeBracket:   models.BracketOpen,
		Tier:         models.TierA,
		TournamentID: "t1",
		GroupSize:    2,
	})
	s.Require().NoError(err)
	s.Equal(models.BracketGroups, stage.Type)
	s.Require().Len(stage.Groups, 2)
	for _, g := range stage.Groups {
		s.Len(g.PlayerIDs, 2)
		// Two players, double round robin.
		s.Len(g.Matches, 2)
	}

	// Decide every match in favour of the first listed player.
	for gi, g := range stage.Groups {
		for mi := range g.Matches {
			updated, err := s.service.UpdateGroupMatch(s.ctx, models.BracketOpen, models.TierA, gi, mi, "6:0 6:0", models.ModeSets)
			s.Require().NoError(err)
			m := updated.Groups[gi].Matches[mi]
			s.Require().NotNil(m.WinnerID)
			s.Equal(m.AID, *m.WinnerID)
		}
	}

	tables, err := s.service.Standings(s.ctx, models.BracketOpen, models.TierA)
	s.Require().NoError(err)
	s.Require().Len(tables, 2)
	for _, table := range tables {
		s.Len(table.Standings, 2)
	}

	tree, err := s.service.PromoteGroups(s.ctx, models.BracketOpen, models.TierA)
	s.Require().NoError(err)
	s.Equal(models.BracketKnockout, tree.Type)
	// Two group winners and two runners up seed a four slot tree.
	s.Require().Len(tree.Rounds, 2)
	s.Len(tree.Rounds[0], 2)
}

func (s *ScheduleServiceTestSuite) TestUpdateGroupMatchUndecidedScoreClearsWinner() {
	_, err := s.service.GenerateGroups(s.ctx, GenerateGroupsInput{
		AgeBracket:   models.BracketOpen,
		Tier:         models.TierA,
		TournamentID: "t1",
		GroupSize:    4,
	})
	s.Require().NoError(err)

	updated, err := s.service.UpdateGroupMatch(s.ctx, models.BracketOpen, models.TierA, 0, 0, "6:4 4:6", models.ModeSets)
	s.Require().NoError(err)
	s.Nil(updated.Groups[0].Matches[0].WinnerID)
}

func (s *ScheduleServiceTestSuite) TestPromoteWithoutGroupStageFails() {
	_, err := s.service.PromoteGroups(s.ctx, models.BracketU18, models.TierC)
	s.ErrorIs(err, ErrBracketNotFound)
}
