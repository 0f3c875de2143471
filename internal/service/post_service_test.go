package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/internal/repository"
	"github.com/rblog/rblog/internal/service"
	"github.com/rblog/rblog/internal/testutil"
)

type PostServiceTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
	followRepo  *repository.FollowRepository
	postService *service.PostService
	comments    *service.CommentService
	moderation  *service.ModerationService
}

func (s *PostServiceTestSuite) SetupSuite() {
	testutil.InitTestLogger(s.T())
	s.testDB = testutil.SetupTestDatabase(s.T())

	userRepo := repository.NewUserRepository(s.testDB.DB)
	s.postRepo = repository.NewPostRepository(s.testDB.DB)
	s.commentRepo = repository.NewCommentRepository(s.testDB.DB)
	s.followRepo = repository.NewFollowRepository(s.testDB.DB)
	s.postService = service.NewPostService(s.postRepo, userRepo)
	s.comments = service.NewCommentService(s.commentRepo, s.postRepo)
	s.moderation = service.NewModerationService(s.postRepo, s.commentRepo)
}

func (s *PostServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *PostServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *PostServiceTestSuite) firstPage() repository.Page {
	return repository.Page{Number: 1, Size: 20}
}

func (s *PostServiceTestSuite) TestCreate() {
	author := testutil.DefaultTestUser(s.T(), s.testDB.DB)

	post, err := s.postService.Create(author, "# Hello\n\nFirst post.")
	s.Require().NoError(err)
	s.NotZero(post.ID)
	s.Equal(author.ID, post.AuthorID)
	s.Contains(post.BodyHTML, "<h1>Hello</h1>")
}

func (s *PostServiceTestSuite) TestCreate_EmptyBody() {
	author := testutil.DefaultTestUser(s.T(), s.testDB.DB)

	_, err := s.postService.Create(author, "   \n\t")
	s.ErrorIs(err, service.ErrEmptyBody)
}

func (s *PostServiceTestSuite) TestCreate_SanitizesMarkup() {
	author := testutil.DefaultTestUser(s.T(), s.testDB.DB)

	post, err := s.postService.Create(author, `hi <script>alert("x")</script> there`)
	s.Require().NoError(err)
	s.NotContains(post.BodyHTML, "<script>")
	s.NotContains(post.BodyHTML, "alert")
	s.Contains(post.BodyHTML, "hi")
}

func (s *PostServiceTestSuite) TestUpdate_RederivesHTML() {
	author := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	post, err := s.postService.Create(author, "*old*")
	s.Require().NoError(err)
	s.Contains(post.BodyHTML, "<em>old</em>")

	updated, err := s.postService.Update(author, post.ID, "**new**")
	s.Require().NoError(err)
	s.Contains(updated.BodyHTML, "<strong>new</strong>")
	s.NotContains(updated.BodyHTML, "old")
}

func (s *PostServiceTestSuite) TestUpdate_AuthorOrAdminOnly() {
	author := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	stranger := testutil.CreateTestUser(s.T(), s.testDB.DB, "stranger", "stranger@example.com", "password123", models.RoleNameUser)
	admin := testutil.DefaultAdminUser(s.T(), s.testDB.DB)

	post, err := s.postService.Create(author, "mine")
	s.Require().NoError(err)

	_, err = s.postService.Update(stranger, post.ID, "stolen")
	s.ErrorIs(err, service.ErrPermissionDenied)

	_, err = s.postService.Update(admin, post.ID, "moderated edit")
	s.NoError(err)
}

func (s *PostServiceTestSuite) TestDelete_CascadesComments() {
	author := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	post, err := s.postService.Create(author, "to be removed")
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		_, err := s.comments.Create(author, post.ID, fmt.Sprintf("comment %d", i))
		s.Require().NoError(err)
	}

	count, err := s.postRepo.CommentCount(post.ID)
	s.Require().NoError(err)
	s.EqualValues(3, count)

	s.Require().NoError(s.postService.Delete(author, post.ID))

	_, err = s.postService.Get(post.ID)
	s.ErrorIs(err, service.ErrPostNotFound)

	count, err = s.postRepo.CommentCount(post.ID)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *PostServiceTestSuite) TestDelete_StrangerForbidden() {
	author := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	stranger := testutil.CreateTestUser(s.T(), s.testDB.DB, "stranger", "stranger@example.com", "password123", models.RoleNameUser)

	post, err := s.postService.Create(author, "keep out")
	s.Require().NoError(err)

	s.ErrorIs(s.postService.Delete(stranger, post.ID), service.ErrPermissionDenied)
}

func (s *PostServiceTestSuite) TestList_ExcludesDisabled() {
	author := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	moderator := testutil.DefaultModerator(s.T(), s.testDB.DB)

	visible, err := s.postService.Create(author, "visible")
	s.Require().NoError(err)
	hidden, err := s.postService.Create(author, "hidden")
	s.Require().NoError(err)

	s.Require().NoError(s.moderation.SetPostDisabled(moderator, hidden.ID, true))

	posts, total, err := s.postService.List(s.firstPage())
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Require().Len(posts, 1)
	s.Equal(visible.ID, posts[0].ID)

	// Moderation listing still sees both
	all, allTotal, err := s.moderation.ListPosts(s.firstPage())
	s.Require().NoError(err)
	s.EqualValues(2, allTotal)
	s.Len(all, 2)

	// Re-enabling puts it back
	s.Require().NoError(s.moderation.SetPostDisabled(moderator, hidden.ID, false))
	_, total, err = s.postService.List(s.firstPage())
	s.Require().NoError(err)
	s.EqualValues(2, total)
}

func (s *PostServiceTestSuite) TestFeed() {
	alice := testutil.CreateTestUser(s.T(), s.testDB.DB, "alice", "alice@example.com", "password123", models.RoleNameUser)
	bob := testutil.CreateTestUser(s.T(), s.testDB.DB, "bob", "bob@example.com", "password123", models.RoleNameUser)
	carol := testutil.CreateTestUser(s.T(), s.testDB.DB, "carol", "carol@example.com", "password123", models.RoleNameUser)

	// Alice follows Bob but not Carol
	s.Require().NoError(s.followRepo.Create(alice.ID, bob.ID))

	own, err := s.postService.Create(alice, "my own post")
	s.Require().NoError(err)
	followed, err := s.postService.Create(bob, "bob's post")
	s.Require().NoError(err)
	_, err = s.postService.Create(carol, "carol's post")
	s.Require().NoError(err)

	// Space the timestamps out so the ordering assertion is deterministic
	s.backdate(own.ID, 2*time.Hour)
	s.backdate(followed.ID, time.Hour)

	feed, total, err := s.postService.Feed(alice, s.firstPage())
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Require().Len(feed, 2)

	// Newest first: Bob's post, then Alice's own (via the self-follow edge)
	s.Equal(followed.ID, feed[0].ID)
	s.Equal(own.ID, feed[1].ID)
}

func (s *PostServiceTestSuite) TestFeed_ExcludesDisabled() {
	alice := testutil.CreateTestUser(s.T(), s.testDB.DB, "alice", "alice@example.com", "password123", models.RoleNameUser)
	moderator := testutil.DefaultModerator(s.T(), s.testDB.DB)

	post, err := s.postService.Create(alice, "flagged")
	s.Require().NoError(err)
	s.Require().NoError(s.moderation.SetPostDisabled(moderator, post.ID, true))

	feed, total, err := s.postService.Feed(alice, s.firstPage())
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(feed)
}

func (s *PostServiceTestSuite) TestListByUsername() {
	alice := testutil.CreateTestUser(s.T(), s.testDB.DB, "alice", "alice@example.com", "password123", models.RoleNameUser)
	bob := testutil.CreateTestUser(s.T(), s.testDB.DB, "bob", "bob@example.com", "password123", models.RoleNameUser)

	_, err := s.postService.Create(alice, "alice writes")
	s.Require().NoError(err)
	_, err = s.postService.Create(bob, "bob writes")
	s.Require().NoError(err)

	posts, total, err := s.postService.ListByUsername("alice", s.firstPage())
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Require().Len(posts, 1)
	s.Equal(alice.ID, posts[0].AuthorID)

	_, _, err = s.postService.ListByUsername("nobody", s.firstPage())
	s.Error(err)
}

func (s *PostServiceTestSuite) TestPagination() {
	author := testutil.DefaultTestUser(s.T(), s.testDB.DB)
	for i := 0; i < 5; i++ {
		_, err := s.postService.Create(author, fmt.Sprintf("post %d", i))
		s.Require().NoError(err)
	}

	posts, total, err := s.postService.List(repository.Page{Number: 2, Size: 2})
	s.Require().NoError(err)
	s.EqualValues(5, total)
	s.Len(posts, 2)

	posts, _, err = s.postService.List(repository.Page{Number: 3, Size: 2})
	s.Require().NoError(err)
	s.Len(posts, 1)
}

// backdate shifts a post's timestamp into the past.
func (s *PostServiceTestSuite) backdate(postID uint, by time.Duration) {
	err := s.testDB.DB.Model(&models.Post{}).
		Where("id = ?", postID).
		Update("timestamp", time.Now().Add(-by)).Error
	s.Require().NoError(err)
}

func TestPostServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostServiceTestSuite))
}
