package api

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Company is an organization whose representatives publish events.
type Company struct {
	ID                 int64  `json:"id"                           validate:"required"`
	Name               string `json:"name"                         validate:"required"`
	City               string `json:"city,omitempty"`
	Address            string `json:"address,omitempty"`
	PhoneNumber        string `json:"phoneNumber,omitempty"`
	Email              string `json:"email,omitempty"`
	Website            string `json:"website,omitempty"`
	RepresentativeID   *int64 `json:"representativeId,omitempty"`
	RepresentativeName string `json:"representativeName,omitempty"`
}

func (c Company) ResourceID() string     { return formatID(c.ID) }
func (c Company) Label() string          { return c.Name }
func (c Company) SearchFields() []string { return []string{c.Name, c.City, c.Address} }

type CompanyInput struct {
	Name        string `json:"name"                  validate:"required,max=255"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email,omitempty"       validate:"omitempty,email"`
	Website     string `json:"website,omitempty"     validate:"omitempty,url"`
}

// User is a platform account as listed by the admin endpoints.
type User struct {
	ID        int64  `json:"userId"              validate:"required"`
	Username  string `json:"username"            validate:"required"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (u User) ResourceID() string { return formatID(u.ID) }
func (u User) Label() string      { return u.Username }
func (u User) SearchFields() []string {
	return []string{u.Username, u.Email, u.FirstName, u.LastName}
}

// FullName joins first and last name, falling back to the username.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// UserInput is used for registration and for profile updates. Password is
// only sent on registration.
type UserInput struct {
	Username  string `json:"username"            validate:"required,min=3,max=50"`
	Email     string `json:"email"               validate:"required,email"`
	Password  string `json:"password,omitempty"  validate:"omitempty,min=6"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"      validate:"omitempty,oneof=ADMIN INSTRUCTOR LEARNER COMPANY_REP"`
}

// RoleUpdate is the body of a role change.
type RoleUpdate struct {
	Role string `json:"role" validate:"required,oneof=ADMIN INSTRUCTOR LEARNER COMPANY_REP"`
}

// Instructor is a trainer profile attached to a user account.
type Instructor struct {
	ID        int64               `json:"id"                  validate:"required"`
	Name      string              `json:"name"                validate:"required"`
	Bio       string              `json:"bio,omitempty"`
	Rating    decimal.NullDecimal `json:"rating"`
	UserID    int64               `json:"userId"`
	Expertise string              `json:"expertise,omitempty"`
}

func (i Instructor) ResourceID() string     { return formatID(i.ID) }
func (i Instructor) Label() string          { return i.Name }
func (i Instructor) SearchFields() []string { return []string{i.Name, i.Bio} }

type InstructorInput struct {
	UserID    int64  `json:"userId"              validate:"required,gt=0"`
	Bio       string `json:"bio"                 validate:"required"`
	Expertise string `json:"expertise,omitempty"`
}

// Event is a company organized event with optional paid registration.
type Event struct {
	ID                   int64               `json:"eventId"                        validate:"required"`
	Title                string              `json:"title"                          validate:"required"`
	Description          string              `json:"description,omitempty"`
	Location             string              `json:"location,omitempty"`
	EventDate            string              `json:"eventDate,omitempty"`
	RegistrationDeadline string              `json:"registrationDeadline,omitempty"`
	Price                decimal.NullDecimal `json:"price"`
	MaxParticipants      *int                `json:"maxParticipants,omitempty"`
	CurrentParticipants  *int                `json:"currentParticipants,omitempty"`
	Type                 string              `json:"type,omitempty"`
	CompanyID            *int64              `json:"companyId,omitempty"`
	CompanyName          string              `json:"companyName,omitempty"`
	CreatedAt            string              `json:"createdAt,omitempty"`
}

func (e Event) ResourceID() string     { return formatID(e.ID) }
func (e Event) Label() string          { return e.Title }
func (e Event) SearchFields() []string { return []string{e.Title, e.Description, e.Location} }

// Seats renders the participant counter, e.g. "12/40".
func (e Event) Seats() string {
	current := 0
	if e.CurrentParticipants != nil {
		current = *e.CurrentParticipants
	}
	if e.MaxParticipants == nil {
		return strconv.Itoa(current)
	}
	return strconv.Itoa(current) + "/" + strconv.Itoa(*e.MaxParticipants)
}

type EventInput struct {
	Title                string              `json:"title"                          validate:"required,max=255"`
	Description          string              `json:"description,omitempty"`
	Location             string              `json:"location,omitempty"`
	EventDate            string              `json:"eventDate,omitempty"`
	RegistrationDeadline string              `json:"registrationDeadline,omitempty"`
	Price                decimal.NullDecimal `json:"price"`
	MaxParticipants      *int                `json:"maxParticipants,omitempty"      validate:"omitempty,gt=0"`
	Type                 string              `json:"type,omitempty"`
	CompanyID            *int64              `json:"companyId,omitempty"`
}

const (
	SessionUpcoming  = "UPCOMING"
	SessionCompleted = "COMPLETED"
	SessionCancelled = "CANCELLED"
)

// PracticalSession is a hands-on session of a course run by an instructor.
type PracticalSession struct {
	ID                       int64  `json:"id"                                 validate:"required"`
	Title                    string `json:"title"                              validate:"required"`
	Description              string `json:"description,omitempty"`
	SessionDateTime          string `json:"sessionDateTime,omitempty"`
	Location                 string `json:"location,omitempty"`
	DurationMinutes          *int   `json:"durationMinutes,omitempty"`
	Status                   string `json:"status,omitempty"                   validate:"omitempty,oneof=UPCOMING COMPLETED CANCELLED"`
	CourseID                 int64  `json:"courseId"`
	CourseTitle              string `json:"courseTitle,omitempty"`
	ConductingInstructorID   int64  `json:"conductingInstructorId"`
	ConductingInstructorName string `json:"conductingInstructorName,omitempty"`
}

func (s PracticalSession) ResourceID() string { return formatID(s.ID) }
func (s PracticalSession) Label() string      { return s.Title }
func (s PracticalSession) SearchFields() []string {
	return []string{s.Title, s.Location, s.CourseTitle, s.ConductingInstructorName}
}

type PracticalSessionInput struct {
	Title                  string `json:"title"                     validate:"required,max=255"`
	Description            string `json:"description,omitempty"`
	SessionDateTime        string `json:"sessionDateTime"           validate:"required"`
	Location               string `json:"location"                  validate:"required"`
	DurationMinutes        *int   `json:"durationMinutes,omitempty" validate:"omitempty,gt=0"`
	CourseID               int64  `json:"courseId"                  validate:"required,gt=0"`
	ConductingInstructorID int64  `json:"conductingInstructorId"    validate:"required,gt=0"`
	Status                 string `json:"status,omitempty"          validate:"omitempty,oneof=UPCOMING COMPLETED CANCELLED"`
}

// CertificationUser and CertificationCourse are the nested summaries of a certification.
type CertificationUser struct {
	ID       int64  `json:"userId"`
	Username string `json:"username"`
}

type CertificationCourse struct {
	ID    int64  `json:"courseId"`
	Title string `json:"title"`
}

// Certification is a certificate issued to a learner for a course.
type Certification struct {
	ID              int64               `json:"certificationId"      validate:"required"`
	User            CertificationUser   `json:"user"`
	Course          CertificationCourse `json:"course"`
	CertificateCode string              `json:"certificateCode"      validate:"required"`
	IssueDate       string              `json:"issueDate,omitempty"`
	ExpiryDate      string              `json:"expiryDate,omitempty"`
	Status          string              `json:"status,omitempty"`
	CreatedAt       string              `json:"createdAt,omitempty"`
}

func (c Certification) ResourceID() string { return formatID(c.ID) }
func (c Certification) Label() string      { return c.CertificateCode }
func (c Certification) SearchFields() []string {
	return []string{c.CertificateCode, c.Status, c.User.Username, c.Course.Title}
}

type CertificationInput struct {
	UserID     int64  `json:"userId"               validate:"required,gt=0"`
	CourseID   int64  `json:"courseId"             validate:"required,gt=0"`
	IssueDate  string `json:"issueDate"            validate:"required"`
	ExpiryDate string `json:"expiryDate,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password"        validate:"required"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	AccessToken string   `json:"accessToken" validate:"required"`
	TokenType   string   `json:"tokenType"`
	UserID      int64    `json:"userId,omitempty"`
	Username    string   `json:"username,omitempty"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles"`
}
