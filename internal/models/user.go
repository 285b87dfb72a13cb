package models

// UserRecord is a single user as returned by the remote user listing.
// Optional attributes are pointers so a missing value can be told apart
// from an empty one.
type UserRecord struct {
	ID        int     `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Age       *int    `json:"age,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
	Image     *string `json:"image,omitempty"`
}

// UserListResponse is the body of the remote user listing endpoint
type UserListResponse struct {
	Users []UserRecord `json:"users"`
	Total int          `json:"total"`
	Skip  int          `json:"skip"`
	Limit int          `json:"limit"`
}

// Column names accepted as sort keys
const (
	ColumnID        = "id"
	ColumnFirstName = "firstName"
	ColumnLastName  = "lastName"
	ColumnEmail     = "email"
	ColumnUsername  = "username"
	ColumnAge       = "age"
	ColumnGender    = "gender"
	ColumnPhone     = "phone"
	ColumnBirthDate = "birthDate"
	ColumnImage     = "image"
)

// Columns lists every sortable UserRecord field in declaration order
var Columns = []string{
	ColumnID, ColumnFirstName, ColumnLastName, ColumnEmail, ColumnUsername,
	ColumnAge, ColumnGender, ColumnPhone, ColumnBirthDate, ColumnImage,
}

// IsColumn reports whether name is a sortable UserRecord field
func IsColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Value returns the field named by column as a string, an int, or nil when
// the field is absent or unknown.
func (u *UserRecord) Value(column string) any {
	switch column {
	case ColumnID:
		return u.ID
	case ColumnFirstName:
		return u.FirstName
	case ColumnLastName:
		return u.LastName
	case ColumnEmail:
		return u.Email
	case ColumnUsername:
		return u.Username
	case ColumnAge:
		if u.Age == nil {
			return nil
		}
		return *u.Age
	case ColumnGender:
		return optional(u.Gender)
	case ColumnPhone:
		return optional(u.Phone)
	case ColumnBirthDate:
		return optional(u.BirthDate)
	case ColumnImage:
		return optional(u.Image)
	}
	return nil
}

// GenderValue returns the gender or "" when absent
func (u *UserRecord) GenderValue() string {
	if u.Gender == nil {
		return ""
	}
	return *u.Gender
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
