package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewItineraryRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewItineraryRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewCollaboratorRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewCollaboratorRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewVersionRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewVersionRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewUserRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewUserRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewTourPackageRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewTourPackageRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewTxManager(t *testing.T) {
	pool := &pgxpool.Pool{}
	txm := NewTxManager(pool)
	assert.NotNil(t, txm)
}
