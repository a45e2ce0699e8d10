package admissions

import (
	"strings"

	"pet-inpatient-care/internal/domain/schedule"
)

// PrescriptionInput es el payload crudo del formulario de prescripción.
// Todos los campos llegan como texto; el generador de agenda hace las
// conversiones numéricas con sus propios fallbacks.
type PrescriptionInput struct {
	Tipo       string `json:"tipo"`
	Frequencia string `json:"frequencia"`
	Descricao  string `json:"descricao"`

	ACadaValor   string `json:"aCadaValor"`
	ACadaUnidade string `json:"aCadaUnidade"`
	PorValor     string `json:"porValor"`
	PorUnidade   string `json:"porUnidade"`
	DataInicio   string `json:"dataInicio"`
	HoraInicio   string `json:"horaInicio"`

	MedUnidade string `json:"medUnidade"`
	MedDose    string `json:"medDose"`
	MedVia     string `json:"medVia"`
	MedPeso    string `json:"medPeso"`

	FluidFluido            string `json:"fluidFluido"`
	FluidEquipo            string `json:"fluidEquipo"`
	FluidUnidade           string `json:"fluidUnidade"`
	FluidDose              string `json:"fluidDose"`
	FluidVia               string `json:"fluidVia"`
	FluidVelocidadeValor   string `json:"fluidVelocidadeValor"`
	FluidVelocidadeUnidade string `json:"fluidVelocidadeUnidade"`
	FluidSuplemento        string `json:"fluidSuplemento"`
}

func (in *PrescriptionInput) normalize() {
	v := func(s *string) { *s = strings.TrimSpace(*s) }
	v(&in.Tipo)
	v(&in.Frequencia)
	v(&in.Descricao)
	v(&in.ACadaValor)
	v(&in.ACadaUnidade)
	v(&in.PorValor)
	v(&in.PorUnidade)
	v(&in.DataInicio)
	v(&in.HoraInicio)
	v(&in.MedUnidade)
	v(&in.MedDose)
	v(&in.MedVia)
	v(&in.MedPeso)
	v(&in.FluidFluido)
	v(&in.FluidEquipo)
	v(&in.FluidUnidade)
	v(&in.FluidDose)
	v(&in.FluidVia)
	v(&in.FluidVelocidadeValor)
	v(&in.FluidVelocidadeUnidade)
	v(&in.FluidSuplemento)

	// En fluidoterapia el "fluído" y la descripción se completan
	// mutuamente, igual que en el formulario.
	if normalizeKey(in.Tipo) == TipoFluidoterapia {
		if in.FluidFluido == "" {
			in.FluidFluido = in.Descricao
		}
		if in.Descricao == "" {
			in.Descricao = in.FluidFluido
		}
	}
}

// ValidatePrescription aplica la matriz de campos obligatorios por
// frecuencia y categoría. El orden de chequeo es fijo (frecuencia
// primero, categoría después) para que el primer error reportado sea
// determinista.
func ValidatePrescription(in PrescriptionInput) error {
	in.normalize()

	if in.Tipo == "" {
		return invalid("tipo", "Selecione o tipo da prescrição.")
	}
	if in.Frequencia == "" {
		return invalid("frequencia", "Informe a frequência da aplicação.")
	}

	switch normalizeKey(in.Frequencia) {
	case FrequenciaRecorrente:
		if in.ACadaValor == "" {
			return invalid("aCadaValor", `Preencha o intervalo "A cada".`)
		}
		if in.ACadaUnidade == "" {
			return invalid("aCadaUnidade", "Selecione a unidade do intervalo.")
		}
		if in.PorValor == "" {
			return invalid("porValor", `Informe o campo "Por".`)
		}
		if in.PorUnidade == "" {
			return invalid("porUnidade", `Selecione a unidade do campo "Por".`)
		}
		if in.DataInicio == "" {
			return invalid("dataInicio", "Defina a data de início.")
		}
		if in.HoraInicio == "" {
			return invalid("horaInicio", "Informe o horário inicial.")
		}
	case FrequenciaUnica:
		if in.DataInicio == "" || in.HoraInicio == "" {
			return invalid("dataInicio", "Defina a data e hora para aplicação única.")
		}
	default:
		// quando necessário: también necesita punto de partida para
		// materializar la entrada plantilla
		if in.DataInicio == "" || in.HoraInicio == "" {
			return invalid("dataInicio", "Defina a data e hora de início.")
		}
	}

	if _, err := schedule.TimeToMinutes(in.HoraInicio); err != nil {
		return invalid("horaInicio", "Informe o horário inicial no formato hh:mm.")
	}

	if in.Descricao == "" {
		return invalid("descricao", "Descreva o procedimento ou medicamento.")
	}

	switch normalizeKey(in.Tipo) {
	case TipoMedicamento:
		if in.MedUnidade == "" {
			return invalid("medUnidade", "Selecione a unidade do medicamento.")
		}
		if in.MedDose == "" {
			return invalid("medDose", "Informe a dose do medicamento.")
		}
		if in.MedVia == "" {
			return invalid("medVia", "Selecione a via de administração.")
		}
	case TipoFluidoterapia:
		if in.FluidFluido == "" {
			return invalid("fluidFluido", "Informe qual fluído será administrado.")
		}
		if in.FluidEquipo == "" {
			return invalid("fluidEquipo", "Informe o equipo da fluidoterapia.")
		}
		if in.FluidUnidade == "" {
			return invalid("fluidUnidade", "Selecione a unidade do fluído.")
		}
		if in.FluidDose == "" {
			return invalid("fluidDose", "Informe a dose da fluidoterapia.")
		}
		if in.FluidVia == "" {
			return invalid("fluidVia", "Informe a via da fluidoterapia.")
		}
		if in.FluidVelocidadeValor == "" || in.FluidVelocidadeUnidade == "" {
			return invalid("fluidVelocidade", "Preencha a velocidade de aplicação.")
		}
	}

	return nil
}
