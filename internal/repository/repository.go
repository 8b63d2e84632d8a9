package repository

import "pong_web/internal/storage"

type Repositories struct {
	User    UserRepository
	GameLog GameLogRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		GameLog: NewGameLogRepository(db),
	}
}
