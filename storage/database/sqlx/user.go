// Package sqlxrepos is the PostgreSQL storage backend. Repositories run raw
// SQL through sqlx and satisfy the same interfaces as the in-memory backend.
package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core/user"
)

type userRow struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Username       string         `db:"username"`
	Email          string         `db:"email"`
	IsActive       bool           `db:"is_active"`
	Roles          pq.StringArray `db:"roles"`
	GradeLevel     int            `db:"grade_level"`
	Specialization string         `db:"specialization"`
	PasswordHash   []byte         `db:"password_hash"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      sql.NullTime   `db:"updated_at"`
	LastLogin      sql.NullTime   `db:"last_login"`
}

func (row userRow) user() user.User {
	usr := user.User{
		ID:             row.ID,
		Name:           row.Name,
		Username:       row.Username,
		Email:          row.Email,
		IsActive:       row.IsActive,
		Roles:          row.Roles,
		GradeLevel:     row.GradeLevel,
		Specialization: row.Specialization,
		PasswordHash:   row.PasswordHash,
		CreatedAt:      row.CreatedAt,
	}
	if row.UpdatedAt.Valid {
		usr.UpdatedAt = row.UpdatedAt.Time
	}
	if row.LastLogin.Valid {
		usr.LastLogin = row.LastLogin.Time
	}
	return usr
}

func users(rows []userRow) []user.User {
	usrs := make([]user.User, 0, len(rows))
	for _, row := range rows {
		usrs = append(usrs, row.user())
	}
	return usrs
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	query := `SELECT username, email FROM app_user WHERE (LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($2))`
	args := []interface{}{username, email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		query += ` AND NOT (id = ANY($3))`
		args = append(args, pq.StringArray(ids))
	}

	var rows []userRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	for _, row := range rows {
		if strings.EqualFold(row.Username, username) {
			return user.ErrUsernameExists
		}
		if strings.EqualFold(row.Email, email) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	query := `
		INSERT INTO app_user (id, name, username, email, is_active, roles, grade_level, specialization, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := repo.db.Exec(
		query,
		usr.ID,
		usr.Name,
		usr.Username,
		usr.Email,
		usr.IsActive,
		pq.StringArray(usr.Roles),
		usr.GradeLevel,
		usr.Specialization,
		usr.PasswordHash,
		usr.CreatedAt,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	query := `SELECT * FROM app_user ORDER BY created_at`
	if err := repo.db.Select(&rows, query); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users(rows), nil
}

func (repo *userRepository) getUser(query string, args ...interface{}) (user.User, error) {
	var row userRow
	err := repo.db.Get(&row, query, args...)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	} else if err != nil {
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.user(), nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	return repo.getUser(`SELECT * FROM app_user WHERE id = $1`, id)
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	return repo.getUser(`SELECT * FROM app_user WHERE LOWER(username) = LOWER($1)`, username)
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	return repo.getUser(`SELECT * FROM app_user WHERE LOWER(email) = LOWER($1)`, email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	return repo.getUser(
		`SELECT * FROM app_user WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($1)`, username)
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %[1]s OR username ILIKE %[1]s OR email ILIKE %[1]s)", p))
	}
	if filter.Roles != nil {
		// filter roles are prefixes: "admin:" matches any admin
		prefixes := make([]string, 0, len(filter.Roles))
		for _, role := range filter.Roles {
			prefixes = append(prefixes, role+"%")
		}
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM UNNEST(roles) r WHERE r LIKE ANY(%s))", arg(pq.StringArray(prefixes))))
	}
	if filter.IsActive != nil {
		conds = append(conds, "is_active = "+arg(*filter.IsActive))
	}
	if filter.GradeLevel != 0 {
		conds = append(conds, "grade_level = "+arg(filter.GradeLevel))
	}
	if !filter.CreatedFrom.IsZero() {
		conds = append(conds, "created_at >= "+arg(filter.CreatedFrom))
	}
	if !filter.CreatedTo.IsZero() {
		conds = append(conds, "created_at <= "+arg(filter.CreatedTo))
	}

	query := `SELECT * FROM app_user`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"

	var rows []userRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return users(rows), nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	// only save set fields
	var sets []string
	var args []interface{}
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if usr.Roles != nil {
		set("roles", pq.StringArray(usr.Roles))
	}
	if usr.PasswordHash != nil {
		set("password_hash", usr.PasswordHash)
	}
	if isActive != nil {
		set("is_active", *isActive)
	}
	if usr.Name != "" {
		set("name", usr.Name)
	}
	if usr.Username != "" {
		set("username", usr.Username)
	}
	if usr.Email != "" {
		set("email", usr.Email)
	}
	if usr.GradeLevel != 0 {
		set("grade_level", usr.GradeLevel)
	}
	if usr.Specialization != "" {
		set("specialization", usr.Specialization)
	}
	if !usr.LastLogin.IsZero() {
		set("last_login", usr.LastLogin)
	}
	if !usr.UpdatedAt.IsZero() {
		set("updated_at", usr.UpdatedAt)
	}
	if len(sets) == 0 {
		return repo.GetUserByID(usr.ID)
	}

	args = append(args, usr.ID)
	query := fmt.Sprintf(
		`UPDATE app_user SET %s WHERE id = $%d RETURNING *`, strings.Join(sets, ", "), len(args))

	var row userRow
	err := repo.db.Get(&row, query, args...)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	} else if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return row.user(), nil
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	query := `DELETE FROM app_user WHERE id = ANY($1)`
	if _, err := repo.db.Exec(query, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
