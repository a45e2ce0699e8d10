package boxes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-inpatient-care/internal/middleware"
	"pet-inpatient-care/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/boxes", func(br chi.Router) {
		br.Get("/", listBoxesHandler(svc))
		br.Post("/", createBoxHandler(svc))
		br.Get("/disponiveis", availableBoxesHandler(svc))
		br.Delete("/{boxID}", deleteBoxHandler(svc))
	})
}

// boxResponse es un box del cadastro da internação.
type boxResponse struct {
	ID            string    `json:"id"`
	Box           string    `json:"box"`
	Ocupante      string    `json:"ocupante"`
	Status        string    `json:"status"`
	Especialidade string    `json:"especialidade"`
	Higienizacao  string    `json:"higienizacao"`
	Observacao    string    `json:"observacao"`
	EmpresaID     string    `json:"empresaId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// listBoxesHandler godoc
// @Summary Listar boxes
// @Tags boxes
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} boxResponse
// @Failure 401 {string} string "unauthorized"
// @Router /internacao/boxes [get]
func listBoxesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r); !ok {
			return
		}
		all, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Não foi possível carregar os boxes.")
			return
		}
		out := make([]boxResponse, 0, len(all))
		for _, box := range all {
			out = append(out, toBoxResponse(box))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createBoxHandler godoc
// @Summary Criar box
// @Tags boxes
// @Accept json
// @Produce json
// @Param payload body CreateInput true "Dados do box"
// @Success 201 {object} boxResponse
// @Failure 400 {object} errorResponse
// @Router /internacao/boxes [post]
func createBoxHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireUser(w, r)
		if !ok {
			return
		}
		var in CreateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		// sin empresa explícita, el box queda en la clínica del usuario
		if strings.TrimSpace(in.EmpresaID) == "" {
			in.EmpresaID = claims.TenantID
		}
		box, err := svc.Create(r.Context(), in)
		if err != nil {
			if errors.Is(err, ErrMissingNome) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "Não foi possível salvar o box.")
			return
		}
		writeJSON(w, http.StatusCreated, toBoxResponse(box))
	}
}

// availableBoxesHandler godoc
// @Summary Listar boxes livres
// @Tags boxes
// @Produce json
// @Success 200 {array} boxResponse
// @Router /internacao/boxes/disponiveis [get]
func availableBoxesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r); !ok {
			return
		}
		free, err := svc.Available(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Não foi possível carregar os boxes.")
			return
		}
		out := make([]boxResponse, 0, len(free))
		for _, box := range free {
			out = append(out, toBoxResponse(box))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// deleteBoxHandler godoc
// @Summary Remover box
// @Description Remove um box livre. Um box com paciente dentro não pode ser removido.
// @Tags boxes
// @Produce json
// @Param boxID path string true "ID do box"
// @Success 204 {string} string ""
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /internacao/boxes/{boxID} [delete]
func deleteBoxHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireUser(w, r); !ok {
			return
		}
		err := svc.Delete(r.Context(), chi.URLParam(r, "boxID"))
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrOccupied):
			writeError(w, http.StatusConflict, err.Error())
		case err != nil:
			writeError(w, http.StatusInternalServerError, "Não foi possível remover o box.")
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

func toBoxResponse(box Box) boxResponse {
	return boxResponse{
		ID:            box.ID,
		Box:           box.Nome,
		Ocupante:      box.Ocupante,
		Status:        box.Status,
		Especialidade: box.Especialidade,
		Higienizacao:  box.Higienizacao,
		Observacao:    box.Observacao,
		EmpresaID:     box.EmpresaID,
		CreatedAt:     box.CreatedAt,
		UpdatedAt:     box.UpdatedAt,
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

func requireUser(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, false
	}
	return claims, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeJSON está duplicado intencionalmente en handlers de distintos
// módulos para evitar acoplar dominios por un helper trivial.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
