package handlers

import (
	"github.com/jmoiron/sqlx"

	"bookswap/internal/blob"
	"bookswap/internal/repos"
	"bookswap/internal/services"
)

type Deps struct {
	AuthHandler  *AuthHandler
	UserHandler  *UserHandler
	BookHandler  *BookHandler
	TradeHandler *TradeHandler
}

func NewDeps(db *sqlx.DB, blobs blob.Store, auth *services.AuthService) *Deps {
	userRepo := repos.NewUserRepo(db)
	bookRepo := repos.NewBookRepo(db)
	tradeRepo := repos.NewTradeRepo(db)

	userSvc := services.NewUserService(userRepo)
	bookSvc := services.NewBookService(bookRepo, userRepo, blobs)
	tradeSvc := services.NewTradeService(tradeRepo, bookRepo, userRepo)
	feedSvc := services.NewFeedService(bookRepo, userRepo, tradeRepo)

	return &Deps{
		AuthHandler:  &AuthHandler{Auth: auth},
		UserHandler:  &UserHandler{Users: userSvc},
		BookHandler:  &BookHandler{Books: bookSvc, Feeds: feedSvc},
		TradeHandler: &TradeHandler{Trades: tradeSvc},
	}
}
