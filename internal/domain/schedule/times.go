package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidFormat = errors.New("invalid time format")
)

const minutesPerDay = 24 * 60

// TimeToMinutes convierte "hh:mm" a minutos desde medianoche, en [0, 1440).
func TimeToMinutes(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, ErrInvalidFormat
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidFormat
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrInvalidFormat
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, ErrInvalidFormat
	}
	return hours*60 + minutes, nil
}

// MinutesToTime convierte minutos a "hh:mm", envolviendo módulo 1440.
// Acepta valores negativos.
func MinutesToTime(total int) string {
	total %= minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// CombineDateAndTime arma un timestamp "YYYY-MM-DDThh:mm:00Z" a partir de
// fecha ("YYYY-MM-DD") y hora ("hh:mm"). Si la fecha falta o no parsea,
// devuelve "" en vez de error (política tolerante de ingestión: el resto
// del sistema trata el campo como ausente).
func CombineDateAndTime(date, clock string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		clock = "00:00"
	}
	parsed, err := time.Parse("2006-01-02T15:04", date+"T"+clock)
	if err != nil {
		return ""
	}
	return parsed.UTC().Format(time.RFC3339)
}

// ShiftDate desplaza una fecha "YYYY-MM-DD" en días calendario.
// Si la fecha no parsea, devuelve el valor original sin tocar.
func ShiftDate(date string, days int) string {
	trimmed := strings.TrimSpace(date)
	if trimmed == "" || days == 0 {
		return trimmed
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return trimmed
	}
	return parsed.AddDate(0, 0, days).Format("2006-01-02")
}

// IntervalToMinutes convierte una cantidad + unidad ("horas" o "dias") a
// minutos. Cantidades no positivas o unidades desconocidas devuelven 0;
// el llamador degrada a una ocurrencia única.
func IntervalToMinutes(amount, unit string) int {
	value, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(amount), ",", "."), 64)
	if err != nil || value <= 0 {
		return 0
	}
	switch normalizeUnit(unit) {
	case "horas", "hora":
		return int(value * 60)
	case "dias", "dia":
		return int(value * float64(minutesPerDay))
	default:
		return 0
	}
}

func normalizeUnit(unit string) string {
	unit = strings.ToLower(strings.TrimSpace(unit))
	// "días" llega con o sin acento según el cliente
	return strings.ReplaceAll(unit, "í", "i")
}
