package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/concert-seat-reservation/internal/model"
	"github.com/iliyamo/concert-seat-reservation/internal/utils"
)

// ErrEmailExists is returned by Create when the address is taken.
var ErrEmailExists = errors.New("email already exists")

const userColumns = `id, username, email, password_hash, status`

// UserRepo is the MySQL user directory used for login and seeding.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create hashes the password and inserts the user.  Emails are stored
// normalized and any status other than loyal is stored as normal.
func (r *UserRepo) Create(ctx context.Context, username, email, password, status string, cost int) (uint64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, status) VALUES (?, ?, ?, ?)`,
		username, model.NormalizeEmail(email), hash, model.NormalizeStatus(status))
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return 0, ErrEmailExists
	}
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, `email = ?`, model.NormalizeEmail(email))
}

func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}
