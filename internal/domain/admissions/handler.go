package admissions

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
	r.Route("/registros", func(rr chi.Router) {
		rr.Get("/", listRecordsHandler(svc))
		rr.Post("/", admitHandler(svc))

		rr.Route("/{registroID}", func(ri chi.Router) {
			ri.Get("/", getRecordHandler(svc))
			ri.Patch("/", updateRecordHandler(svc))

			ri.Post("/prescricoes", addPrescriptionHandler(svc))
			ri.Post("/prescricoes/{prescricaoID}/interromper", interruptPrescriptionHandler(svc))
			ri.Post("/prescricoes/{prescricaoID}/excluir", deletePrescriptionHandler(svc))

			ri.Post("/execucoes/{execucaoID}/concluir", completeExecutionHandler(svc))
			ri.Post("/ocorrencias", recordOccurrenceHandler(svc))

			ri.Post("/box", reassignBoxHandler(svc))
			ri.Post("/alta", dischargeHandler(svc))
			ri.Post("/obito", registerDeathHandler(svc))
			ri.Post("/cancelar", cancelHandler(svc))
		})
	})
}

// recordResponse es la ficha completa de internación devuelta por la API.
type recordResponse struct {
	ID     string `json:"id"`
	Codigo int64  `json:"codigo"`

	PetID      string `json:"petId"`
	PetNome    string `json:"petNome"`
	PetEspecie string `json:"petEspecie"`
	PetRaca    string `json:"petRaca"`
	PetPeso    string `json:"petPeso"`
	PetIdade   string `json:"petIdade"`

	TutorNome      string `json:"tutorNome"`
	TutorDocumento string `json:"tutorDocumento"`
	TutorContato   string `json:"tutorContato"`

	Situacao       string `json:"situacao"`
	SituacaoCodigo string `json:"situacaoCodigo"`
	Risco          string `json:"risco"`
	RiscoCodigo    string `json:"riscoCodigo"`
	Veterinario    string `json:"veterinario"`
	Box            string `json:"box"`

	AltaPrevistaData string `json:"altaPrevistaData"`
	AltaPrevistaHora string `json:"altaPrevistaHora"`

	Queixa      string   `json:"queixa"`
	Diagnostico string   `json:"diagnostico"`
	Prognostico string   `json:"prognostico"`
	Alergias    []string `json:"alergias"`
	Acessorios  string   `json:"acessorios"`
	Observacoes string   `json:"observacoes"`

	Estado string `json:"estado" enums:"internada,alta,obito,cancelada"`

	Alta         *altaResponse         `json:"alta,omitempty"`
	Obito        *obitoResponse        `json:"obito,omitempty"`
	Cancelamento *cancelamentoResponse `json:"cancelamento,omitempty"`

	Prescricoes []prescricaoResponse `json:"prescricoes"`
	Execucoes   []execucaoResponse   `json:"execucoes"`
	Historico   []historicoResponse  `json:"historico"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type altaResponse struct {
	Responsavel  string    `json:"responsavel"`
	Data         string    `json:"data"`
	Hora         string    `json:"hora"`
	ConfirmadaEm string    `json:"confirmadaEm"`
	Observacoes  string    `json:"observacoes"`
	RegistradaEm time.Time `json:"registradaEm"`
}

type obitoResponse struct {
	Veterinario  string    `json:"veterinario"`
	Data         string    `json:"data"`
	Hora         string    `json:"hora"`
	ConfirmadoEm string    `json:"confirmadoEm"`
	Causa        string    `json:"causa"`
	Relatorio    string    `json:"relatorio"`
	RegistradoEm time.Time `json:"registradoEm"`
}

type cancelamentoResponse struct {
	Responsavel   string    `json:"responsavel"`
	Data          string    `json:"data"`
	Hora          string    `json:"hora"`
	ConfirmadoEm  string    `json:"confirmadoEm"`
	Justificativa string    `json:"justificativa"`
	Observacoes   string    `json:"observacoes"`
	RegistradoEm  time.Time `json:"registradoEm"`
}

type prescricaoResponse struct {
	ID         string `json:"id"`
	Tipo       string `json:"tipo"`
	Frequencia string `json:"frequencia"`
	Descricao  string `json:"descricao"`
	Resumo     string `json:"resumo"`

	ACadaValor   string `json:"aCadaValor"`
	ACadaUnidade string `json:"aCadaUnidade"`
	PorValor     string `json:"porValor"`
	PorUnidade   string `json:"porUnidade"`
	DataInicio   string `json:"dataInicio"`
	HoraInicio   string `json:"horaInicio"`
	InicioEm     string `json:"inicioEm"`

	MedUnidade string `json:"medUnidade,omitempty"`
	MedDose    string `json:"medDose,omitempty"`
	MedVia     string `json:"medVia,omitempty"`
	MedPeso    string `json:"medPeso,omitempty"`

	FluidFluido            string `json:"fluidFluido,omitempty"`
	FluidEquipo            string `json:"fluidEquipo,omitempty"`
	FluidUnidade           string `json:"fluidUnidade,omitempty"`
	FluidDose              string `json:"fluidDose,omitempty"`
	FluidVia               string `json:"fluidVia,omitempty"`
	FluidVelocidadeValor   string `json:"fluidVelocidadeValor,omitempty"`
	FluidVelocidadeUnidade string `json:"fluidVelocidadeUnidade,omitempty"`
	FluidSuplemento        string `json:"fluidSuplemento,omitempty"`

	CriadoPor string    `json:"criadoPor"`
	CriadoEm  time.Time `json:"criadoEm"`
}

type execucaoResponse struct {
	ID           string `json:"id"`
	PrescricaoID string `json:"prescricaoId,omitempty"`
	Descricao    string `json:"descricao"`
	Responsavel  string `json:"responsavel"`
	Status       string `json:"status"`
	SobDemanda   bool   `json:"sobDemanda"`

	ProgramadoData string `json:"programadoData"`
	ProgramadoHora string `json:"programadoHora"`
	ProgramadoEm   string `json:"programadoEm"`

	RealizadoData string `json:"realizadoData,omitempty"`
	RealizadoHora string `json:"realizadoHora,omitempty"`
	RealizadoEm   string `json:"realizadoEm,omitempty"`
	RealizadoPor  string `json:"realizadoPor,omitempty"`

	Observacoes string `json:"observacoes,omitempty"`
}

type historicoResponse struct {
	ID        string    `json:"id"`
	Tipo      string    `json:"tipo"`
	Descricao string    `json:"descricao"`
	CriadoPor string    `json:"criadoPor"`
	CriadoEm  time.Time `json:"criadoEm"`
}

// listRecordsHandler godoc
// @Summary Listar internações
// @Description Lista todos os registros de internação com prescrições, agenda de execuções e histórico.
// @Tags internacao
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} recordResponse
// @Failure 401 {string} string "unauthorized"
// @Router /internacao/registros [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireClaims(w, r); !ok {
			return
		}
		records, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Não foi possível carregar as internações.")
			return
		}
		out := make([]recordResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// admitHandler godoc
// @Summary Internar paciente
// @Description Cria um registro de internação com código sequencial e ocupa o box informado.
// @Tags internacao
// @Accept json
// @Produce json
// @Param payload body AdmitInput true "Ficha de admissão"
// @Success 201 {object} recordResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {string} string "unauthorized"
// @Router /internacao/registros [post]
func admitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		var in AdmitInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		rec, err := svc.Admit(r.Context(), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err, "Não foi possível registrar a internação.")
			return
		}
		writeJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

// getRecordHandler godoc
// @Summary Consultar internação
// @Tags internacao
// @Produce json
// @Param registroID path string true "ID do registro"
// @Success 200 {object} recordResponse
// @Failure 404 {object} errorResponse
// @Router /internacao/registros/{registroID} [get]
func getRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireClaims(w, r); !ok {
			return
		}
		rec, err := svc.Get(r.Context(), chi.URLParam(r, "registroID"))
		if err != nil {
			writeServiceError(w, err, "Não foi possível carregar a internação.")
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// updateRecordHandler godoc
// @Summary Atualizar ficha da internação
// @Description Atualiza os campos clínicos e administrativos editáveis. Bloqueado em estado terminal.
// @Tags internacao
// @Accept json
// @Produce json
// @Param registroID path string true "ID do registro"
// @Param payload body UpdateInput true "Campos a atualizar"
// @Success 200 {object} recordResponse
// @Failure 409 {object} errorResponse
// @Router /internacao/registros/{registroID} [patch]
func updateRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		var in UpdateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		rec, err := svc.UpdateRecord(r.Context(), chi.URLParam(r, "registroID"), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err, "Não foi possível atualizar a internação.")
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// addPrescriptionHandler godoc
// @Summary Registrar prescrição
// @Description Valida a prescrição, gera a agenda de execuções e anexa ambas à ficha.
// @Tags internacao
// @Accept json
// @Produce json
// @Param registroID path string true "ID do registro"
// @Param payload body PrescriptionInput true "Prescrição"
// @Success 200 {object} recordResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /internacao/registros/{registroID}/prescricoes [post]
func addPrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		var in PrescriptionInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		rec, err := svc.AddPrescription(r.Context(), chi.URLParam(r, "registroID"), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err, "Não foi possível salvar a prescrição.")
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// interruptPrescriptionHandler godoc
// @Summary Interromper prescrição
// @Description Remove a prescrição e as execuções pendentes vinculadas; execuções concluídas permanecem.
// @Tags internacao
// @Produce json
// @Param registroID path string true "ID do registro"
// @Param prescricaoID path string true "ID da prescrição"
// @Success 200 {object} recordResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /internacao/registros/{registroID}/prescricoes/{prescricaoID}/interromper [post]
func interruptPrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		rec, err := svc.InterruptPrescription(r.Context(), chi.URLParam(r, "registroID"), chi.URLParam(r, "prescricaoID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err, "Não foi possível interromper a prescrição.")
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// deletePrescriptionHandler godoc
// @Summary Excluir prescrição
// @Description Remove a prescrição e todas as execuções vinculadas, inclusive as concluídas.
// @Tags internacao
// @Produce json
// @Param registroID path string true "ID do registro"
// @Param prescricaoID path string true "ID da prescrição"
// @Success 200 {object} recordResponse
// @Failure 404 {object} errorResponse
// @Router /internacao/registros/{registroID}/prescricoes/{prescricaoID}/excluir [post]
func deletePrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		rec, err := svc.DeletePrescription(r.Context(), chi.URLParam(r, "registroID"), chi.URLParam(r, "prescricaoID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err, "Não foi possível excluir a prescrição.")
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// completeExecutionHandler godoc
// @Summary Concluir execução
// @Description Conclui uma execução agendada no lugar; uma entrada sob demanda gera uma nova ocorrência concluída e preserva o modelo.
// @Tags internacao
// @Accept json
// @Produce json
// @Param registroID path string true "ID do registro"
// @Param execucaoID path string true "ID da execução"
// @Param payload body CompletionInput true "Dados da realização"
// @Success 200 {object} recordResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /internacao/registros/{registroID}/execucoes/{execucaoID}/concluir [post]
func completeExecutionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		var in CompletionInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		rec, err := svc.CompleteExecution(r.Context(), chi.URLParam(r, "registroID"), chi.URLParam(r, "execucaoID"), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err, "Não foi possível concluir esse procedimento.")
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// recordOccurrenceHandler godoc
// @Summary Registrar ocorrência
// @Description Registra parâmetros clínicos ou outra ocorrência avulsa, já concluída, no topo da agenda.
// @Tags internacao
// @Accept json
// @Produce json
// @Param registroID path string true "ID do registro"
// @Param payload body OccurrenceInput true "Ocorrência"
// @Success 200 {object} recordResponse
// @Failure 400 {object} errorResponse
// @Router /internacao/registros/{registroID}/ocorrencias [post]
func recordOccurrenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		var in OccurrenceInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		rec, err := svc.RecordOccurrence(r.Context(), chi.URLParam(r, "registroID"), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err, "Não foi possível registrar a ocorrência.")
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

type reassignBoxRequest struct {
	Box string `json:"box"`
}

// reassignBoxHandler godoc
// @Summary Mover paciente de box
// @Tags internacao
// @Accept json
// @Produce json
// @Param registroID path string true "ID do registro"
// @Param payload body reassignBoxRequest true "Box de destino"
// @Success 200 {object} recordResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /internacao/registros/{registroID}/box [post]
func reassignBoxHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		var req reassignBoxRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		rec, err := svc.ReassignBox(r.Context(), chi.URLParam(r, "registroID"), claims.UserID, req.Box)
		if err != nil {
			writeServiceError(w, err, "Não foi possível mover o paciente de box.")
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// dischargeHandler godoc
// @Summary Confirmar alta
// @Description Confirma a alta, remove todas as execuções pendentes e libera o box.
// @Tags internacao
// @Accept json
// @Produce json
// @Param registroID path string true "ID do registro"
// @Param payload body DischargeInput true "Dados da alta"
// @Success 200 {object} recordResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /internacao/registros/{registroID}/alta [post]
func dischargeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		var in DischargeInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		rec, err := svc.Discharge(r.Context(), chi.URLParam(r, "registroID"), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err, "Não foi possível confirmar a alta.")
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// registerDeathHandler godoc
// @Summary Registrar óbito
// @Description Registra o óbito, libera o box e mantém a agenda pendente na ficha.
// @Tags internacao
// @Accept json
// @Produce json
// @Param registroID path string true "ID do registro"
// @Param payload body DeathInput true "Dados do óbito"
// @Success 200 {object} recordResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /internacao/registros/{registroID}/obito [post]
func registerDeathHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		var in DeathInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		rec, err := svc.RegisterDeath(r.Context(), chi.URLParam(r, "registroID"), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err, "Não foi possível registrar o óbito.")
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// cancelHandler godoc
// @Summary Cancelar internação
// @Tags internacao
// @Accept json
// @Produce json
// @Param registroID path string true "ID do registro"
// @Param payload body CancelInput true "Dados do cancelamento"
// @Success 200 {object} recordResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /internacao/registros/{registroID}/cancelar [post]
func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		var in CancelInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		rec, err := svc.Cancel(r.Context(), chi.URLParam(r, "registroID"), claims.UserID, in)
		if err != nil {
			writeServiceError(w, err, "Não foi possível cancelar a internação.")
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

func toRecordResponse(rec AdmissionRecord) recordResponse {
	out := recordResponse{
		ID:               rec.ID,
		Codigo:           rec.Codigo,
		PetID:            rec.Pet.ID,
		PetNome:          rec.Pet.Nome,
		PetEspecie:       rec.Pet.Especie,
		PetRaca:          rec.Pet.Raca,
		PetPeso:          rec.Pet.Peso,
		PetIdade:         rec.Pet.Idade,
		TutorNome:        rec.Tutor.Nome,
		TutorDocumento:   rec.Tutor.Documento,
		TutorContato:     rec.Tutor.Contato,
		Situacao:         rec.Situacao,
		SituacaoCodigo:   rec.SituacaoCodigo,
		Risco:            rec.Risco,
		RiscoCodigo:      rec.RiscoCodigo,
		Veterinario:      rec.Veterinario,
		Box:              rec.Box,
		AltaPrevistaData: rec.AltaPrevistaData,
		AltaPrevistaHora: rec.AltaPrevistaHora,
		Queixa:           rec.Queixa,
		Diagnostico:      rec.Diagnostico,
		Prognostico:      rec.Prognostico,
		Alergias:         rec.Alergias,
		Acessorios:       rec.Acessorios,
		Observacoes:      rec.Observacoes,
		Estado:           string(rec.State),
		Prescricoes:      make([]prescricaoResponse, 0, len(rec.Prescricoes)),
		Execucoes:        make([]execucaoResponse, 0, len(rec.Execucoes)),
		Historico:        make([]historicoResponse, 0, len(rec.Historico)),
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
	if out.Alergias == nil {
		out.Alergias = []string{}
	}

	if rec.Alta != nil {
		out.Alta = &altaResponse{
			Responsavel:  rec.Alta.Responsavel,
			Data:         rec.Alta.Data,
			Hora:         rec.Alta.Hora,
			ConfirmadaEm: rec.Alta.ConfirmadaEm,
			Observacoes:  rec.Alta.Observacoes,
			RegistradaEm: rec.Alta.RegistradaEm,
		}
	}
	if rec.Obito != nil {
		out.Obito = &obitoResponse{
			Veterinario:  rec.Obito.Veterinario,
			Data:         rec.Obito.Data,
			Hora:         rec.Obito.Hora,
			ConfirmadoEm: rec.Obito.ConfirmadoEm,
			Causa:        rec.Obito.Causa,
			Relatorio:    rec.Obito.Relatorio,
			RegistradoEm: rec.Obito.RegistradoEm,
		}
	}
	if rec.Cancelamento != nil {
		out.Cancelamento = &cancelamentoResponse{
			Responsavel:   rec.Cancelamento.Responsavel,
			Data:          rec.Cancelamento.Data,
			Hora:          rec.Cancelamento.Hora,
			ConfirmadoEm:  rec.Cancelamento.ConfirmadoEm,
			Justificativa: rec.Cancelamento.Justificativa,
			Observacoes:   rec.Cancelamento.Observacoes,
			RegistradoEm:  rec.Cancelamento.RegistradoEm,
		}
	}

	for _, p := range rec.Prescricoes {
		out.Prescricoes = append(out.Prescricoes, prescricaoResponse{
			ID:                     p.ID,
			Tipo:                   p.Tipo,
			Frequencia:             p.Frequencia,
			Descricao:              p.Descricao,
			Resumo:                 p.Resumo,
			ACadaValor:             p.ACadaValor,
			ACadaUnidade:           p.ACadaUnidade,
			PorValor:               p.PorValor,
			PorUnidade:             p.PorUnidade,
			DataInicio:             p.DataInicio,
			HoraInicio:             p.HoraInicio,
			InicioEm:               p.InicioEm,
			MedUnidade:             p.MedUnidade,
			MedDose:                p.MedDose,
			MedVia:                 p.MedVia,
			MedPeso:                p.MedPeso,
			FluidFluido:            p.FluidFluido,
			FluidEquipo:            p.FluidEquipo,
			FluidUnidade:           p.FluidUnidade,
			FluidDose:              p.FluidDose,
			FluidVia:               p.FluidVia,
			FluidVelocidadeValor:   p.FluidVelocidadeValor,
			FluidVelocidadeUnidade: p.FluidVelocidadeUnidade,
			FluidSuplemento:        p.FluidSuplemento,
			CriadoPor:              p.CriadoPor,
			CriadoEm:               p.CriadoEm,
		})
	}
	for _, e := range rec.Execucoes {
		out.Execucoes = append(out.Execucoes, execucaoResponse{
			ID:             e.ID,
			PrescricaoID:   e.PrescricaoID,
			Descricao:      e.Descricao,
			Responsavel:    e.Responsavel,
			Status:         e.Status,
			SobDemanda:     e.SobDemanda,
			ProgramadoData: e.ProgramadoData,
			ProgramadoHora: e.ProgramadoHora,
			ProgramadoEm:   e.ProgramadoEm,
			RealizadoData:  e.RealizadoData,
			RealizadoHora:  e.RealizadoHora,
			RealizadoEm:    e.RealizadoEm,
			RealizadoPor:   e.RealizadoPor,
			Observacoes:    e.Observacoes,
		})
	}
	for _, h := range rec.Historico {
		out.Historico = append(out.Historico, historicoResponse{
			ID:        h.ID,
			Tipo:      h.Tipo,
			Descricao: h.Descricao,
			CriadoPor: h.CriadoPor,
			CriadoEm:  h.CriadoEm,
		})
	}
	return out
}

type errorResponse struct {
	Message string `json:"message"`
}

func requireClaims(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, false
	}
	return claims, true
}

// writeServiceError traduce los errores del dominio al status HTTP y al
// mensaje {message} que la ficha espera.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var vErr *ValidationError
	var stateErr *InvalidStateError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Msg)
	case errors.As(err, &stateErr):
		writeError(w, http.StatusConflict, stateErr.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
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
