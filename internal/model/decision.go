package model

// Outcome описывает результат разрешения slug.
type Outcome int

const (
	// OutcomeNotFound — записи нет, либо при поиске произошла ошибка.
	OutcomeNotFound Outcome = iota
	// OutcomeInactive — запись есть, но ссылка выключена.
	OutcomeInactive
	// OutcomeResolved — ссылка активна, Destination заполнен.
	OutcomeResolved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInactive:
		return "inactive"
	case OutcomeResolved:
		return "resolved"
	default:
		return "not_found"
	}
}

// Decision — решение о редиректе для одного запроса.
type Decision struct {
	// Err хранит исходную причину NotFound для логов, наружу не отдаётся.
	Err         error
	Destination string
	Outcome     Outcome
}

// NotFound строит решение NotFound с причиной.
func NotFound(cause error) Decision {
	return Decision{Outcome: OutcomeNotFound, Err: cause}
}

// Inactive строит решение для выключенной ссылки.
func Inactive() Decision {
	return Decision{Outcome: OutcomeInactive}
}

// Resolved строит решение с адресом назначения.
func Resolved(destination string) Decision {
	return Decision{Outcome: OutcomeResolved, Destination: destination}
}

// Redirectable сообщает, можно ли отправить посетителя на Destination.
func (d Decision) Redirectable() bool {
	return d.Outcome == OutcomeResolved && d.Destination != ""
}
