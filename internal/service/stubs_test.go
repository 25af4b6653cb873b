package service

import (
	"context"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/models"
)

type stubUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uint]models.User{}, nextID: 1}
}

func (s *stubUserRepo) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *stubUserRepo) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	for _, user := range s.users {
		if user.Role == role {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = *user
	return nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	s.users[user.ID] = *user
	return nil
}

type enrollmentKey struct {
	userID   uint
	courseID uint
}

type stubCourseRepo struct {
	courses     map[uint]models.Course
	enrollments map[enrollmentKey]models.Enrollment
	nextID      uint
}

func newStubCourseRepo() *stubCourseRepo {
	return &stubCourseRepo{
		courses:     map[uint]models.Course{},
		enrollments: map[enrollmentKey]models.Enrollment{},
		nextID:      1,
	}
}

func (s *stubCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	courses := make([]models.Course, 0, len(s.courses))
	for _, course := range s.courses {
		courses = append(courses, course)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (s *stubCourseRepo) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Course, error) {
	var courses []models.Course
	for _, course := range s.courses {
		if course.CreatedByUserID == teacherID {
			courses = append(courses, course)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (s *stubCourseRepo) ListEnrolled(ctx context.Context, studentID uint) ([]models.Course, error) {
	var courses []models.Course
	for key := range s.enrollments {
		if key.userID == studentID {
			courses = append(courses, s.courses[key.courseID])
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (s *stubCourseRepo) GetByID(ctx context.Context, id uint) (models.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (s *stubCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = s.nextID
	s.nextID++
	s.courses[course.ID] = *course
	return nil
}

func (s *stubCourseRepo) Update(ctx context.Context, course *models.Course) error {
	s.courses[course.ID] = *course
	return nil
}

func (s *stubCourseRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := s.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *stubCourseRepo) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	key := enrollmentKey{enrollment.UserID, enrollment.CourseID}
	if _, ok := s.enrollments[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	s.enrollments[key] = *enrollment
	return nil
}

func (s *stubCourseRepo) ListRecentEnrollments(ctx context.Context, limit int) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	for _, enrollment := range s.enrollments {
		enrollments = append(enrollments, enrollment)
	}
	if len(enrollments) > limit {
		enrollments = enrollments[:limit]
	}
	return enrollments, nil
}

func (s *stubCourseRepo) Unenroll(ctx context.Context, studentID, courseID uint) error {
	key := enrollmentKey{studentID, courseID}
	if _, ok := s.enrollments[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.enrollments, key)
	return nil
}

func (s *stubCourseRepo) IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error) {
	_, ok := s.enrollments[enrollmentKey{studentID, courseID}]
	return ok, nil
}

func (s *stubCourseRepo) ListStudents(ctx context.Context, courseID uint) ([]models.User, error) {
	return nil, nil
}

type stubQuizRepo struct {
	quizzes map[uint]models.Quiz
	nextID  uint
}

func newStubQuizRepo() *stubQuizRepo {
	return &stubQuizRepo{quizzes: map[uint]models.Quiz{}, nextID: 1}
}

func (s *stubQuizRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	for _, quiz := range s.quizzes {
		if quiz.CourseID == courseID {
			quizzes = append(quizzes, quiz)
		}
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].ID < quizzes[j].ID })
	return quizzes, nil
}

func (s *stubQuizRepo) ListDueBetween(ctx context.Context, courseIDs []uint, from, to time.Time) ([]models.Quiz, error) {
	return nil, nil
}

func (s *stubQuizRepo) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	quiz, ok := s.quizzes[id]
	if !ok {
		return models.Quiz{}, gorm.ErrRecordNotFound
	}
	return quiz, nil
}

func (s *stubQuizRepo) Create(ctx context.Context, quiz *models.Quiz) error {
	quiz.ID = s.nextID
	s.nextID++
	s.quizzes[quiz.ID] = *quiz
	return nil
}

func (s *stubQuizRepo) Update(ctx context.Context, quiz *models.Quiz) error {
	s.quizzes[quiz.ID] = *quiz
	return nil
}

func (s *stubQuizRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := s.quizzes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.quizzes, id)
	return nil
}

type quizAttemptKey struct {
	quizID    uint
	studentID uint
}

type stubQuizSubmissionRepo struct {
	submissions map[uint]models.QuizSubmission
	byAttempt   map[quizAttemptKey]uint
	quizzes     *stubQuizRepo
	nextID      uint
	failCreate  error
}

func newStubQuizSubmissionRepo(quizzes *stubQuizRepo) *stubQuizSubmissionRepo {
	return &stubQuizSubmissionRepo{
		submissions: map[uint]models.QuizSubmission{},
		byAttempt:   map[quizAttemptKey]uint{},
		quizzes:     quizzes,
		nextID:      1,
	}
}

func (s *stubQuizSubmissionRepo) ListByQuiz(ctx context.Context, quizID uint) ([]models.QuizSubmission, error) {
	var submissions []models.QuizSubmission
	for _, submission := range s.submissions {
		if submission.QuizID == quizID {
			submissions = append(submissions, submission)
		}
	}
	sort.Slice(submissions, func(i, j int) bool { return submissions[i].ID < submissions[j].ID })
	return submissions, nil
}

func (s *stubQuizSubmissionRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.QuizSubmission, error) {
	return nil, nil
}

func (s *stubQuizSubmissionRepo) ListRecent(ctx context.Context, limit int) ([]models.QuizSubmission, error) {
	var submissions []models.QuizSubmission
	for _, submission := range s.submissions {
		submissions = append(submissions, submission)
	}
	if len(submissions) > limit {
		submissions = submissions[:limit]
	}
	return submissions, nil
}

func (s *stubQuizSubmissionRepo) GetByID(ctx context.Context, id uint) (models.QuizSubmission, error) {
	submission, ok := s.submissions[id]
	if !ok {
		return models.QuizSubmission{}, gorm.ErrRecordNotFound
	}
	if s.quizzes != nil {
		if quiz, ok := s.quizzes.quizzes[submission.QuizID]; ok {
			submission.Quiz = quiz
		}
	}
	return submission, nil
}

func (s *stubQuizSubmissionRepo) GetByQuizAndStudent(ctx context.Context, quizID, studentID uint) (models.QuizSubmission, error) {
	id, ok := s.byAttempt[quizAttemptKey{quizID, studentID}]
	if !ok {
		return models.QuizSubmission{}, gorm.ErrRecordNotFound
	}
	return s.submissions[id], nil
}

func (s *stubQuizSubmissionRepo) Create(ctx context.Context, submission *models.QuizSubmission) error {
	if s.failCreate != nil {
		return s.failCreate
	}
	key := quizAttemptKey{submission.QuizID, submission.StudentID}
	if _, ok := s.byAttempt[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	submission.ID = s.nextID
	s.nextID++
	submission.CreatedAt = time.Now()
	s.submissions[submission.ID] = *submission
	s.byAttempt[key] = submission.ID
	return nil
}

func (s *stubQuizSubmissionRepo) Update(ctx context.Context, submission *models.QuizSubmission) error {
	s.submissions[submission.ID] = *submission
	return nil
}

type stubAssignmentRepo struct {
	assignments map[uint]models.Assignment
	nextID      uint
}

func newStubAssignmentRepo() *stubAssignmentRepo {
	return &stubAssignmentRepo{assignments: map[uint]models.Assignment{}, nextID: 1}
}

func (s *stubAssignmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	for _, assignment := range s.assignments {
		if assignment.CourseID == courseID {
			assignments = append(assignments, assignment)
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].ID < assignments[j].ID })
	return assignments, nil
}

func (s *stubAssignmentRepo) ListDueBetween(ctx context.Context, courseIDs []uint, from, to time.Time) ([]models.Assignment, error) {
	return nil, nil
}

func (s *stubAssignmentRepo) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	assignment, ok := s.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (s *stubAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = s.nextID
	s.nextID++
	s.assignments[assignment.ID] = *assignment
	return nil
}

func (s *stubAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	s.assignments[assignment.ID] = *assignment
	return nil
}

func (s *stubAssignmentRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := s.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.assignments, id)
	return nil
}

type stubAssignmentSubmissionRepo struct {
	submissions map[uint]models.AssignmentSubmission
	nextID      uint
}

func newStubAssignmentSubmissionRepo() *stubAssignmentSubmissionRepo {
	return &stubAssignmentSubmissionRepo{submissions: map[uint]models.AssignmentSubmission{}, nextID: 1}
}

func (s *stubAssignmentSubmissionRepo) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.AssignmentSubmission, error) {
	var submissions []models.AssignmentSubmission
	for _, submission := range s.submissions {
		if submission.AssignmentID == assignmentID {
			submissions = append(submissions, submission)
		}
	}
	sort.Slice(submissions, func(i, j int) bool { return submissions[i].ID < submissions[j].ID })
	return submissions, nil
}

func (s *stubAssignmentSubmissionRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.AssignmentSubmission, error) {
	return nil, nil
}

func (s *stubAssignmentSubmissionRepo) GetByID(ctx context.Context, id uint) (models.AssignmentSubmission, error) {
	submission, ok := s.submissions[id]
	if !ok {
		return models.AssignmentSubmission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (s *stubAssignmentSubmissionRepo) LatestByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.AssignmentSubmission, error) {
	var latest *models.AssignmentSubmission
	for _, submission := range s.submissions {
		if submission.AssignmentID == assignmentID && submission.StudentID == studentID {
			copied := submission
			if latest == nil || copied.ID > latest.ID {
				latest = &copied
			}
		}
	}
	if latest == nil {
		return models.AssignmentSubmission{}, gorm.ErrRecordNotFound
	}
	return *latest, nil
}

func (s *stubAssignmentSubmissionRepo) CountByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (int64, error) {
	var count int64
	for _, submission := range s.submissions {
		if submission.AssignmentID == assignmentID && submission.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

func (s *stubAssignmentSubmissionRepo) Create(ctx context.Context, submission *models.AssignmentSubmission) error {
	submission.ID = s.nextID
	s.nextID++
	submission.CreatedAt = time.Now()
	s.submissions[submission.ID] = *submission
	return nil
}

func (s *stubAssignmentSubmissionRepo) Update(ctx context.Context, submission *models.AssignmentSubmission) error {
	s.submissions[submission.ID] = *submission
	return nil
}

type stubLessonRepo struct {
	lessons map[uint]models.Lesson
	nextID  uint
}

func newStubLessonRepo() *stubLessonRepo {
	return &stubLessonRepo{lessons: map[uint]models.Lesson{}, nextID: 1}
}

func (s *stubLessonRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	for _, lesson := range s.lessons {
		if lesson.CourseID == courseID {
			lessons = append(lessons, lesson)
		}
	}
	return lessons, nil
}

func (s *stubLessonRepo) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	for _, lesson := range s.lessons {
		if lesson.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (s *stubLessonRepo) GetByID(ctx context.Context, id uint) (models.Lesson, error) {
	lesson, ok := s.lessons[id]
	if !ok {
		return models.Lesson{}, gorm.ErrRecordNotFound
	}
	return lesson, nil
}

func (s *stubLessonRepo) Create(ctx context.Context, lesson *models.Lesson) error {
	lesson.ID = s.nextID
	s.nextID++
	s.lessons[lesson.ID] = *lesson
	return nil
}

func (s *stubLessonRepo) Update(ctx context.Context, lesson *models.Lesson) error {
	s.lessons[lesson.ID] = *lesson
	return nil
}

func (s *stubLessonRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := s.lessons[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.lessons, id)
	return nil
}

type stubDiscussionRepo struct {
	posts   map[uint]models.DiscussionPost
	replies map[uint]models.Reply
	nextID  uint
}

func newStubDiscussionRepo() *stubDiscussionRepo {
	return &stubDiscussionRepo{
		posts:   map[uint]models.DiscussionPost{},
		replies: map[uint]models.Reply{},
		nextID:  1,
	}
}

func (s *stubDiscussionRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.DiscussionPost, error) {
	var posts []models.DiscussionPost
	for _, post := range s.posts {
		if post.CourseID == courseID {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (s *stubDiscussionRepo) ListRecentPosts(ctx context.Context, limit int) ([]models.DiscussionPost, error) {
	var posts []models.DiscussionPost
	for _, post := range s.posts {
		posts = append(posts, post)
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *stubDiscussionRepo) GetPost(ctx context.Context, id uint) (models.DiscussionPost, error) {
	post, ok := s.posts[id]
	if !ok {
		return models.DiscussionPost{}, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (s *stubDiscussionRepo) CreatePost(ctx context.Context, post *models.DiscussionPost) error {
	post.ID = s.nextID
	s.nextID++
	s.posts[post.ID] = *post
	return nil
}

func (s *stubDiscussionRepo) UpdatePost(ctx context.Context, post *models.DiscussionPost) error {
	s.posts[post.ID] = *post
	return nil
}

func (s *stubDiscussionRepo) DeletePost(ctx context.Context, id uint) error {
	if _, ok := s.posts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *stubDiscussionRepo) GetReply(ctx context.Context, id uint) (models.Reply, error) {
	reply, ok := s.replies[id]
	if !ok {
		return models.Reply{}, gorm.ErrRecordNotFound
	}
	return reply, nil
}

func (s *stubDiscussionRepo) CreateReply(ctx context.Context, reply *models.Reply) error {
	reply.ID = s.nextID
	s.nextID++
	s.replies[reply.ID] = *reply
	return nil
}

func (s *stubDiscussionRepo) UpdateReply(ctx context.Context, reply *models.Reply) error {
	s.replies[reply.ID] = *reply
	return nil
}

func (s *stubDiscussionRepo) DeleteReply(ctx context.Context, id uint) error {
	removed, ok := s.replies[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for childID, child := range s.replies {
		if child.ParentReplyID != nil && *child.ParentReplyID == id {
			child.ParentReplyID = removed.ParentReplyID
			s.replies[childID] = child
		}
	}
	delete(s.replies, id)
	return nil
}

func (s *stubDiscussionRepo) CountPostsByAuthor(ctx context.Context, courseID, authorID uint) (int64, error) {
	var count int64
	for _, post := range s.posts {
		if post.CourseID == courseID && post.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (s *stubDiscussionRepo) CountRepliesByAuthor(ctx context.Context, courseID, authorID uint) (int64, error) {
	var count int64
	for _, reply := range s.replies {
		post, ok := s.posts[reply.PostID]
		if ok && post.CourseID == courseID && reply.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

type stubFileStore struct {
	saved []string
}

func (s *stubFileStore) Save(ctx context.Context, filename string, reader io.Reader) (string, error) {
	path := "uploads/" + filename
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *stubFileStore) Remove(ctx context.Context, path string) error {
	return nil
}

type stubPDFRenderer struct {
	rendered []dto.ProgressReport
}

func (s *stubPDFRenderer) Render(report dto.ProgressReport) ([]byte, error) {
	s.rendered = append(s.rendered, report)
	return []byte("%PDF-1.4 stub"), nil
}
