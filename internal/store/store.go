// Package store holds the care tracker's record collections in memory and
// enforces the doctor/patient assignment relation on every mutation.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harentsoaR/care-tracker-api/internal/apperrors"
	"github.com/harentsoaR/care-tracker-api/internal/models"
)

// Seed is the initial content of every collection.
type Seed struct {
	Users      []models.User      `json:"users" bson:"users"`
	Milestones []models.Milestone `json:"milestones" bson:"milestones"`
	Tests      []models.Test      `json:"tests" bson:"tests"`
	CareTips   []models.CareTip   `json:"careTips" bson:"careTips"`
	Messages   []models.Message   `json:"messages" bson:"messages"`
}

// Op names a mutation reported to an Observer.
type Op string

const (
	OpCreated Op = "created"
	OpToggled Op = "toggled"
	OpUpdated Op = "updated"
)

// Event describes one applied mutation.
type Event struct {
	Kind    Kind
	Op      Op
	ID      string
	ActorID string
}

// Observer is told about every mutation after it has been applied.
// It is called with the store lock released.
type Observer interface {
	Observe(Event)
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for CareTip.CreatedAt and Message.Timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// Store owns the five collections. All reads return copies; all writes go
// through one lock so id generation and insertion are atomic.
type Store struct {
	mu sync.RWMutex

	users      []models.User
	milestones []models.Milestone
	tests      []models.Test
	careTips   []models.CareTip
	messages   []models.Message

	ids      *IDGenerator
	now      func() time.Time
	logger   *zap.Logger
	observer Observer
}

// New validates seed and builds a store from a copy of it.
func New(seed Seed, opts ...Option) (*Store, error) {
	s := &Store{
		ids:    newIDGenerator(),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := validateSeed(seed); err != nil {
		return nil, err
	}

	s.users = append([]models.User(nil), seed.Users...)
	s.milestones = append([]models.Milestone(nil), seed.Milestones...)
	s.tests = append([]models.Test(nil), seed.Tests...)
	s.careTips = append([]models.CareTip(nil), seed.CareTips...)
	s.messages = append([]models.Message(nil), seed.Messages...)

	for _, u := range s.users {
		s.ids.observe(KindUser, u.ID, len(s.users))
	}
	for _, m := range s.milestones {
		s.ids.observe(KindMilestone, m.ID, len(s.milestones))
	}
	for _, t := range s.tests {
		s.ids.observe(KindTest, t.ID, len(s.tests))
	}
	for _, ct := range s.careTips {
		s.ids.observe(KindCareTip, ct.ID, len(s.careTips))
	}
	for _, msg := range s.messages {
		s.ids.observe(KindMessage, msg.ID, len(s.messages))
	}

	s.logger.Info("store seeded",
		zap.Int("users", len(s.users)),
		zap.Int("milestones", len(s.milestones)),
		zap.Int("tests", len(s.tests)),
		zap.Int("care_tips", len(s.careTips)),
		zap.Int("messages", len(s.messages)),
	)
	return s, nil
}

func validateSeed(seed Seed) error {
	ids := make(map[string]bool, len(seed.Users))
	emails := make(map[string]bool, len(seed.Users))
	roles := make(map[string]models.Role, len(seed.Users))
	for _, u := range seed.Users {
		if u.ID == "" {
			return fmt.Errorf("seed: user %q has no id", u.Email)
		}
		if ids[u.ID] {
			return fmt.Errorf("seed: duplicate user id %q", u.ID)
		}
		if emails[u.Email] {
			return fmt.Errorf("seed: duplicate user email %q", u.Email)
		}
		if !u.Role.Valid() {
			return fmt.Errorf("seed: user %q has unknown role %q", u.ID, u.Role)
		}
		ids[u.ID] = true
		emails[u.Email] = true
		roles[u.ID] = u.Role
	}
	for _, u := range seed.Users {
		if u.AssignedTo == "" {
			continue
		}
		if u.Role != models.RolePatient {
			return fmt.Errorf("seed: doctor %q must not carry assignedTo", u.ID)
		}
		if roles[u.AssignedTo] != models.RoleDoctor {
			return fmt.Errorf("seed: patient %q is assigned to %q, which is not a doctor", u.ID, u.AssignedTo)
		}
	}

	seen := make(map[string]bool)
	for _, m := range seed.Milestones {
		if seen["m:"+m.ID] {
			return fmt.Errorf("seed: duplicate milestone id %q", m.ID)
		}
		seen["m:"+m.ID] = true
		if m.Points < 0 {
			return fmt.Errorf("seed: milestone %q has negative points", m.ID)
		}
	}
	for _, t := range seed.Tests {
		if seen["t:"+t.ID] {
			return fmt.Errorf("seed: duplicate test id %q", t.ID)
		}
		seen["t:"+t.ID] = true
	}
	for _, ct := range seed.CareTips {
		if seen["ct:"+ct.ID] {
			return fmt.Errorf("seed: duplicate care tip id %q", ct.ID)
		}
		seen["ct:"+ct.ID] = true
	}
	for _, msg := range seed.Messages {
		if seen["msg:"+msg.ID] {
			return fmt.Errorf("seed: duplicate message id %q", msg.ID)
		}
		seen["msg:"+msg.ID] = true
	}
	return nil
}

func (s *Store) notify(ev Event) {
	if s.observer != nil {
		s.observer.Observe(ev)
	}
}

// --- Snapshots ---

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.users...)
}

func (s *Store) Milestones() []models.Milestone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Milestone(nil), s.milestones...)
}

func (s *Store) Tests() []models.Test {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Test(nil), s.tests...)
}

func (s *Store) CareTips() []models.CareTip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CareTip(nil), s.careTips...)
}

func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Message(nil), s.messages...)
}

// UserByID returns the user with id, if any.
func (s *Store) UserByID(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByID(id)
}

// UserByEmail returns the user registered under email, if any.
func (s *Store) UserByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) MilestoneByID(id string) (models.Milestone, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.milestoneIndex(id); i >= 0 {
		return s.milestones[i], true
	}
	return models.Milestone{}, false
}

func (s *Store) userByID(id string) (models.User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) milestoneIndex(id string) int {
	for i, m := range s.milestones {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) testIndex(id string) int {
	for i, t := range s.tests {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// --- Mutations ---

// CreateUser appends a new user. The email must be unused; a patient's
// assignedTo, when set, must name an existing doctor.
func (s *Store) CreateUser(nu models.NewUser) (models.User, error) {
	s.mu.Lock()
	for _, u := range s.users {
		if u.Email == nu.Email {
			s.mu.Unlock()
			return models.User{}, apperrors.Conflict("user already exists")
		}
	}
	if !nu.Role.Valid() {
		s.mu.Unlock()
		return models.User{}, apperrors.Validation("role must be doctor or patient")
	}
	if nu.AssignedTo != "" {
		if nu.Role != models.RolePatient {
			s.mu.Unlock()
			return models.User{}, apperrors.Validation("only patients can be assigned to a doctor")
		}
		if doc, ok := s.userByID(nu.AssignedTo); !ok || !doc.IsDoctor() {
			s.mu.Unlock()
			return models.User{}, apperrors.Validation("assigned doctor does not exist")
		}
	}

	user := models.User{
		ID: s.ids.Next(KindUser, nu.Role.Initial(), func(id string) bool {
			_, taken := s.userByID(id)
			return taken
		}),
		Email:      nu.Email,
		Password:   nu.Password,
		Name:       nu.Name,
		Role:       nu.Role,
		AssignedTo: nu.AssignedTo,
	}
	s.users = append(s.users, user)
	s.mu.Unlock()

	s.notify(Event{Kind: KindUser, Op: OpCreated, ID: user.ID, ActorID: user.ID})
	return user, nil
}

// requireAssignedPatient checks that doctorID is a doctor and patientID one
// of their patients. Caller holds the lock.
func (s *Store) requireAssignedPatient(doctorID, patientID string) error {
	doctor, ok := s.userByID(doctorID)
	if !ok || !doctor.IsDoctor() {
		return apperrors.Validation("only doctors can perform this action")
	}
	if patientID == "" {
		return apperrors.Validation("please select a patient first")
	}
	if !s.isAssigned(doctorID, patientID) {
		return apperrors.Validation("patient is not assigned to this doctor")
	}
	return nil
}

// CreateTest assigns a new test to patientID on behalf of doctorID.
func (s *Store) CreateTest(doctorID, patientID string, nt models.NewTest) (models.Test, error) {
	s.mu.Lock()
	if err := s.requireAssignedPatient(doctorID, patientID); err != nil {
		s.mu.Unlock()
		return models.Test{}, err
	}
	category := nt.Category
	if category == "" {
		category = models.DefaultTestCategory
	}
	test := models.Test{
		ID: s.ids.Next(KindTest, "", func(id string) bool {
			return s.testIndex(id) >= 0
		}),
		PatientID:   patientID,
		DoctorID:    doctorID,
		Title:       nt.Title,
		Description: nt.Description,
		DueDate:     nt.DueDate,
		Category:    category,
	}
	s.tests = append(s.tests, test)
	s.mu.Unlock()

	s.logger.Debug("test created", zap.String("test_id", test.ID), zap.String("doctor_id", doctorID), zap.String("patient_id", patientID))
	s.notify(Event{Kind: KindTest, Op: OpCreated, ID: test.ID, ActorID: doctorID})
	return test, nil
}

// RecordTestResults stores results on a test and marks it completed. Only
// the doctor who assigned the test may do this.
func (s *Store) RecordTestResults(testID, doctorID, results string) (models.Test, error) {
	s.mu.Lock()
	i := s.testIndex(testID)
	if i < 0 {
		s.mu.Unlock()
		return models.Test{}, apperrors.NotFound("test not found")
	}
	if s.tests[i].DoctorID != doctorID {
		s.mu.Unlock()
		return models.Test{}, apperrors.Forbidden("only the assigning doctor can record results")
	}
	s.tests[i].Results = results
	s.tests[i].Completed = true
	test := s.tests[i]
	s.mu.Unlock()

	s.notify(Event{Kind: KindTest, Op: OpUpdated, ID: test.ID, ActorID: doctorID})
	return test, nil
}

// CreateCareTip adds a tip for patientID on behalf of doctorID.
func (s *Store) CreateCareTip(doctorID, patientID string, nt models.NewCareTip) (models.CareTip, error) {
	s.mu.Lock()
	if err := s.requireAssignedPatient(doctorID, patientID); err != nil {
		s.mu.Unlock()
		return models.CareTip{}, err
	}
	category := nt.Category
	if category == "" {
		category = models.DefaultCareTipCategory
	}
	tip := models.CareTip{
		ID: s.ids.Next(KindCareTip, "", func(id string) bool {
			for _, ct := range s.careTips {
				if ct.ID == id {
					return true
				}
			}
			return false
		}),
		Title:       nt.Title,
		Description: nt.Description,
		Category:    category,
		DoctorID:    doctorID,
		PatientID:   patientID,
		CreatedAt:   s.now().UTC(),
	}
	s.careTips = append(s.careTips, tip)
	s.mu.Unlock()

	s.logger.Debug("care tip created", zap.String("tip_id", tip.ID), zap.String("doctor_id", doctorID), zap.String("patient_id", patientID))
	s.notify(Event{Kind: KindCareTip, Op: OpCreated, ID: tip.ID, ActorID: doctorID})
	return tip, nil
}

// SendMessage appends a message from senderID. A patient always writes to
// their assigned doctor, so receiverID may be left empty for them. A doctor
// must name one of their patients.
func (s *Store) SendMessage(senderID, receiverID, content string) (models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return models.Message{}, apperrors.Validation("message content cannot be empty")
	}

	s.mu.Lock()
	sender, ok := s.userByID(senderID)
	if !ok {
		s.mu.Unlock()
		return models.Message{}, apperrors.Validation("sender does not exist")
	}

	switch sender.Role {
	case models.RolePatient:
		doctorID, assigned := s.doctorOf(senderID)
		if !assigned {
			s.mu.Unlock()
			return models.Message{}, apperrors.Validation("patient has no assigned doctor")
		}
		if receiverID != "" && receiverID != doctorID {
			s.mu.Unlock()
			return models.Message{}, apperrors.Validation("patients can only message their assigned doctor")
		}
		receiverID = doctorID
	case models.RoleDoctor:
		if err := s.requireAssignedPatient(senderID, receiverID); err != nil {
			s.mu.Unlock()
			return models.Message{}, err
		}
	}

	msg := models.Message{
		ID: s.ids.Next(KindMessage, "", func(id string) bool {
			for _, m := range s.messages {
				if m.ID == id {
					return true
				}
			}
			return false
		}),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  s.now().UTC(),
	}
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.notify(Event{Kind: KindMessage, Op: OpCreated, ID: msg.ID, ActorID: senderID})
	return msg, nil
}

// ToggleMilestoneCompletion flips Completed on a milestone owned by
// actingUserID.
func (s *Store) ToggleMilestoneCompletion(milestoneID, actingUserID string) (models.Milestone, error) {
	s.mu.Lock()
	i := s.milestoneIndex(milestoneID)
	if i < 0 {
		s.mu.Unlock()
		return models.Milestone{}, apperrors.NotFound("milestone not found")
	}
	if s.milestones[i].PatientID != actingUserID {
		s.mu.Unlock()
		return models.Milestone{}, apperrors.Forbidden("only the owning patient can update this milestone")
	}
	s.milestones[i].Completed = !s.milestones[i].Completed
	m := s.milestones[i]
	s.mu.Unlock()

	s.notify(Event{Kind: KindMilestone, Op: OpToggled, ID: m.ID, ActorID: actingUserID})
	return m, nil
}
