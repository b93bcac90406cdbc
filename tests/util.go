// Package testutil holds shared fixtures for service and API tests.
package testutil

import (
	"testing"
	"time"

	"github.com/highschool/scheduler/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

// CreateStudent creates an active student fixture at the given grade level.
func CreateStudent(
	t *testing.T,
	repo user.Repository,
	name, uname, email string,
	gradeLevel int,
) user.User {
	usr := user.User{
		Name:       name,
		Username:   uname,
		Email:      email,
		Roles:      []string{user.RoleStudent},
		GradeLevel: gradeLevel,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return usr
}

// CreateTeacher creates an active teacher fixture with the given
// specialization.
func CreateTeacher(
	t *testing.T,
	repo user.Repository,
	name, uname, email, specialization string,
) user.User {
	usr := user.User{
		Name:           name,
		Username:       uname,
		Email:          email,
		Roles:          []string{user.RoleTeacher},
		Specialization: specialization,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createTeacher() failed: %v", err)
	}
	return usr
}
