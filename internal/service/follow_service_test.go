package service_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/repository"
	"github.com/rblog/rblog/internal/service"
	"github.com/rblog/rblog/internal/testutil"
)

type FollowServiceTestSuite struct {
	suite.Suite
	testDB        *testutil.TestDatabase
	followRepo    *repository.FollowRepository
	followService *service.FollowService
}

func (s *FollowServiceTestSuite) SetupSuite() {
	testutil.InitTestLogger(s.T())
	s.testDB = testutil.SetupTestDatabase(s.T())

	s.followRepo = repository.NewFollowRepository(s.testDB.DB)
	s.followService = service.NewFollowService(s.followRepo, repository.NewUserRepository(s.testDB.DB))
}

func (s *FollowServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *FollowServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *FollowServiceTestSuite) pair() (*models.User, *models.User) {
	alice := testutil.CreateTestUser(s.T(), s.testDB.DB, "alice", "alice@example.com", "password123", models.RoleNameUser)
	bob := testutil.CreateTestUser(s.T(), s.testDB.DB, "bob", "bob@example.com", "password123", models.RoleNameUser)
	return alice, bob
}

func (s *FollowServiceTestSuite) TestFollow() {
	alice, bob := s.pair()

	target, err := s.followService.Follow(alice.ID, "bob")
	s.Require().NoError(err)
	s.Equal(bob.ID, target.ID)

	following, err := s.followService.IsFollowing(alice.ID, bob.ID)
	s.Require().NoError(err)
	s.True(following)

	// Not symmetric
	reverse, err := s.followService.IsFollowing(bob.ID, alice.ID)
	s.Require().NoError(err)
	s.False(reverse)
}

func (s *FollowServiceTestSuite) TestFollow_Idempotent() {
	alice, bob := s.pair()

	_, err := s.followService.Follow(alice.ID, "bob")
	s.Require().NoError(err)
	_, err = s.followService.Follow(alice.ID, "bob")
	s.Require().NoError(err)

	var count int64
	err = s.testDB.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", alice.ID, bob.ID).
		Count(&count).Error
	s.Require().NoError(err)
	s.EqualValues(1, count)
}

func (s *FollowServiceTestSuite) TestFollow_Self() {
	alice, _ := s.pair()

	_, err := s.followService.Follow(alice.ID, "alice")
	s.ErrorIs(err, service.ErrSelfFollow)

	_, err = s.followService.Unfollow(alice.ID, "alice")
	s.ErrorIs(err, service.ErrSelfFollow)

	// The self-follow edge planted at account creation is untouched
	selfEdge, err := s.followRepo.Exists(alice.ID, alice.ID)
	s.Require().NoError(err)
	s.True(selfEdge)
}

func (s *FollowServiceTestSuite) TestFollow_UnknownUser() {
	alice, _ := s.pair()

	_, err := s.followService.Follow(alice.ID, "nobody")
	s.ErrorIs(err, service.ErrUserNotFound)
}

func (s *FollowServiceTestSuite) TestUnfollow() {
	alice, bob := s.pair()

	_, err := s.followService.Follow(alice.ID, "bob")
	s.Require().NoError(err)

	_, err = s.followService.Unfollow(alice.ID, "bob")
	s.Require().NoError(err)

	following, err := s.followService.IsFollowing(alice.ID, bob.ID)
	s.Require().NoError(err)
	s.False(following)

	// Unfollowing again is a no-op
	_, err = s.followService.Unfollow(alice.ID, "bob")
	s.NoError(err)
}

func (s *FollowServiceTestSuite) TestFollowersAndFollowing() {
	alice, bob := s.pair()
	carol := testutil.CreateTestUser(s.T(), s.testDB.DB, "carol", "carol@example.com", "password123", models.RoleNameUser)

	_, err := s.followService.Follow(alice.ID, "bob")
	s.Require().NoError(err)
	_, err = s.followService.Follow(carol.ID, "bob")
	s.Require().NoError(err)

	page := repository.Page{Number: 1, Size: 20}

	// Bob's followers: alice, carol and his own self-follow edge
	followers, total, err := s.followService.Followers("bob", page)
	s.Require().NoError(err)
	s.EqualValues(3, total)
	ids := make([]string, 0, len(followers))
	for _, f := range followers {
		ids = append(ids, f.FollowerID.String())
	}
	s.Contains(ids, alice.ID.String())
	s.Contains(ids, carol.ID.String())
	s.Contains(ids, bob.ID.String())

	// Alice follows bob plus herself
	following, total, err := s.followService.Following("alice", page)
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(following, 2)
}

func (s *FollowServiceTestSuite) TestIsFollowedBy() {
	alice, bob := s.pair()

	_, err := s.followService.Follow(alice.ID, "bob")
	s.Require().NoError(err)

	followedBy, err := s.followService.IsFollowedBy(bob.ID, alice.ID)
	s.Require().NoError(err)
	s.True(followedBy)
}

func TestFollowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FollowServiceTestSuite))
}
