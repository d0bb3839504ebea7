package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Teacher is the persisted teacher account. RegisterNumber is assigned once at
// registration and is the external lookup key.
type Teacher struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name           string             `bson:"name" json:"name"`
	JoiningDate    string             `bson:"joiningDate" json:"joiningDate"`
	PasswordHash   string             `bson:"password" json:"-"`
	BirthDate      string             `bson:"birthDate" json:"birthDate"`
	Streams        []string           `bson:"streams" json:"streams"`
	Subjects       []string           `bson:"subjects" json:"subjects"`
	RegisterNumber string             `bson:"registerNumber" json:"registerNumber"`
	McaTeacher     Flag               `bson:"mcaTeacher" json:"mcaTeacher"`
}

// Clone returns a deep copy so callers cannot alias stored slices.
func (t *Teacher) Clone() *Teacher {
	c := *t
	c.Streams = copyStrings(t.Streams)
	c.Subjects = copyStrings(t.Subjects)
	return &c
}

// TeacherPatch lists the mutable teacher fields. Nil pointers are left untouched;
// the register number is deliberately absent.
type TeacherPatch struct {
	Name         *string
	JoiningDate  *string
	BirthDate    *string
	Streams      *[]string
	Subjects     *[]string
	McaTeacher   *bool
	PasswordHash *string
}

// Empty reports whether the patch changes nothing.
func (p TeacherPatch) Empty() bool {
	return p.Name == nil && p.JoiningDate == nil && p.BirthDate == nil &&
		p.Streams == nil && p.Subjects == nil && p.McaTeacher == nil && p.PasswordHash == nil
}

// Apply writes the patch onto t in place.
func (p TeacherPatch) Apply(t *Teacher) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.JoiningDate != nil {
		t.JoiningDate = *p.JoiningDate
	}
	if p.BirthDate != nil {
		t.BirthDate = *p.BirthDate
	}
	if p.Streams != nil {
		t.Streams = copyStrings(*p.Streams)
	}
	if p.Subjects != nil {
		t.Subjects = copyStrings(*p.Subjects)
	}
	if p.McaTeacher != nil {
		t.McaTeacher = Flag(*p.McaTeacher)
	}
	if p.PasswordHash != nil {
		t.PasswordHash = *p.PasswordHash
	}
}

// SetDocument returns the $set body for a Mongo update.
func (p TeacherPatch) SetDocument() bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.JoiningDate != nil {
		set["joiningDate"] = *p.JoiningDate
	}
	if p.BirthDate != nil {
		set["birthDate"] = *p.BirthDate
	}
	if p.Streams != nil {
		set["streams"] = nonNil(*p.Streams)
	}
	if p.Subjects != nil {
		set["subjects"] = nonNil(*p.Subjects)
	}
	if p.McaTeacher != nil {
		set["mcaTeacher"] = *p.McaTeacher
	}
	if p.PasswordHash != nil {
		set["password"] = *p.PasswordHash
	}
	return set
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// copyStrings returns a fresh non-nil copy of s, so an empty list encodes as [].
func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
