package handlers

import (
	"github.com/engYuns/rengintech/internal/repos"
	"github.com/engYuns/rengintech/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	ClientHandler  *ClientHandler
	ReviewHandler  *ReviewHandler
	BookingHandler *BookingHandler
	AuthHandler    *AuthHandler
	PageHandler    *PageHandler
}

func NewDeps(store repos.Storage, auth *services.AuthService, logos *services.LogoStore) *Deps {
	return &Deps{
		Auth:           auth,
		ClientHandler:  &ClientHandler{Store: store, Logos: logos},
		ReviewHandler:  &ReviewHandler{Store: store},
		BookingHandler: &BookingHandler{Store: store},
		AuthHandler:    &AuthHandler{Auth: auth},
		PageHandler:    &PageHandler{Store: store},
	}
}
