package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
	"github.com/gorilla/mux"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// --- auth ---

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeOrFail(w, r, &req) {
		return
	}

	user, err := s.services.Users.Register(r.Context(), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", user.ID)
	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeOrFail(w, r, &req) {
		return
	}

	res, err := s.services.Users.Login(r.Context(), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, err := s.services.Users.Me(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdate
	if !decodeOrFail(w, r, &req) {
		return
	}

	user, err := s.services.Users.UpdateProfile(r.Context(), userIDFromContext(r.Context()), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// --- menu ---

func (s *Server) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Menu.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.services.Menu.Categories(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cats)
}

func (s *Server) searchMenu(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Menu.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) getMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.services.Menu.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// --- cart ---

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.services.Carts.Get(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var req models.CartQuantity
	if !decodeOrFail(w, r, &req) {
		return
	}

	added, err := s.services.Carts.Add(r.Context(), userIDFromContext(r.Context()), req.ItemID, req.Quantity)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, added)
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeOrFail(w, r, &req) {
		return
	}

	got, err := s.services.Carts.Update(r.Context(), userIDFromContext(r.Context()), mux.Vars(r)["id"], req.Quantity)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, got)
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Carts.Remove(r.Context(), userIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Carts.Clear(r.Context(), userIDFromContext(r.Context())); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- orders ---

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var draft models.OrderDraft
	if !decodeOrFail(w, r, &draft) {
		return
	}

	order, err := s.services.Orders.Create(r.Context(), userIDFromContext(r.Context()), draft)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.services.Orders.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.services.Orders.Get(r.Context(), userIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if !decodeOrFail(w, r, &req) {
		return
	}

	order, err := s.services.Orders.UpdateStatus(r.Context(), userIDFromContext(r.Context()), mux.Vars(r)["id"], req.Status)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
