package admissions

import "time"

// PetInfo son los datos descriptivos del paciente congelados al momento
// de la admisión (la ficha no sigue al registro de pacientes).
type PetInfo struct {
	ID      string
	Nome    string
	Especie string
	Raca    string
	Peso    string
	Idade   string
}

type TutorInfo struct {
	Nome      string
	Documento string
	Contato   string
}

// Prescription es una orden clínica. Nunca se edita después de creada:
// una corrección se modela como interrumpir + recrear.
type Prescription struct {
	ID         string
	Tipo       string // procedimento | medicamento | fluidoterapia (abierto)
	Frequencia string // recorrente | unica | necessario

	Descricao string
	Resumo    string

	ACadaValor   string
	ACadaUnidade string
	PorValor     string
	PorUnidade   string
	DataInicio   string
	HoraInicio   string
	InicioEm     string

	// Medicamento
	MedUnidade string
	MedDose    string
	MedVia     string
	MedPeso    string // peso del paciente al prescribir

	// Fluidoterapia
	FluidFluido            string
	FluidEquipo            string
	FluidUnidade           string
	FluidDose              string
	FluidVia               string
	FluidVelocidadeValor   string
	FluidVelocidadeUnidade string
	FluidSuplemento        string

	CriadoPor string
	CriadoEm  time.Time
}

// ExecutionEntry es una ocurrencia concreta, agendada o realizada.
// PrescricaoID queda vacío en registros ad hoc (ocorrências).
type ExecutionEntry struct {
	ID           string
	PrescricaoID string

	Descricao   string
	Responsavel string
	Status      string
	SobDemanda  bool

	ProgramadoData string
	ProgramadoHora string
	ProgramadoEm   string

	RealizadoData string
	RealizadoHora string
	RealizadoEm   string
	RealizadoPor  string

	Observacoes string
}

// AuditEvent es una entrada inmutable del historial de la ficha.
type AuditEvent struct {
	ID        string
	Tipo      string
	Descricao string
	CriadoPor string
	CriadoEm  time.Time
}

// Alta guarda los metadatos de la alta confirmada.
type Alta struct {
	Responsavel  string
	Data         string
	Hora         string
	ConfirmadaEm string
	Observacoes  string
	RegistradaEm time.Time
}

// Obito guarda los metadatos del óbito confirmado.
type Obito struct {
	Veterinario  string
	Data         string
	Hora         string
	ConfirmadoEm string
	Causa        string
	Relatorio    string
	RegistradoEm time.Time
}

// Cancelamento guarda los metadatos de la cancelación.
type Cancelamento struct {
	Responsavel   string
	Data          string
	Hora          string
	ConfirmadoEm  string
	Justificativa string
	Observacoes   string
	RegistradoEm  time.Time
}

// AdmissionRecord es un episodio de internación completo: ficha,
// prescripciones, mapa de ejecución e historial viajan juntos y se
// persisten como un solo documento.
type AdmissionRecord struct {
	ID     string
	Codigo int64 // secuencial, inmutable una vez asignado

	Pet   PetInfo
	Tutor TutorInfo

	Situacao       string
	SituacaoCodigo string
	Risco          string
	RiscoCodigo    string
	Veterinario    string
	Box            string

	AltaPrevistaData string
	AltaPrevistaHora string

	Queixa      string
	Diagnostico string
	Prognostico string
	Alergias    []string
	Acessorios  string
	Observacoes string

	State        State
	Alta         *Alta
	Obito        *Obito
	Cancelamento *Cancelamento

	Prescricoes []Prescription
	Execucoes   []ExecutionEntry

	// Historico se mantiene con la entrada más reciente primero;
	// ese es el contrato hacia afuera, no el orden de inserción.
	Historico []AuditEvent

	CreatedAt time.Time
	UpdatedAt time.Time

	// Version serializa escrituras concurrentes sobre el mismo
	// registro (check optimista en el repositorio).
	Version int64
}

func (r *AdmissionRecord) prescriptionByID(id string) (int, *Prescription) {
	for i := range r.Prescricoes {
		if r.Prescricoes[i].ID == id {
			return i, &r.Prescricoes[i]
		}
	}
	return -1, nil
}

func (r *AdmissionRecord) executionByID(id string) (int, *ExecutionEntry) {
	for i := range r.Execucoes {
		if r.Execucoes[i].ID == id {
			return i, &r.Execucoes[i]
		}
	}
	return -1, nil
}
