package picklist

import (
	"errors"
	"fmt"

	"galpao-backend/internal/models"
)

// No app original a legalidade das transições estava codificada apenas em quais
// botões a interface mostrava; aqui o guard é avaliado antes de toda transição.
var ErrIllegalTransition = errors.New("transição de status inválida")

// ErrIncompleteItems: conclusão rejeitada porque ainda há item pendente.
var ErrIncompleteItems = errors.New("todos os itens devem estar coletados ou indisponíveis")

var legalTransitions = map[models.ListStatus]models.ListStatus{
	models.StatusPendente:    models.StatusEmSeparacao,
	models.StatusEmSeparacao: models.StatusConcluido,
}

// CanTransition: somente PENDENTE -> EM_SEPARACAO -> CONCLUIDO, sem pulos nem
// retrocesso.
func CanTransition(from, to models.ListStatus) bool {
	next, ok := legalTransitions[from]
	return ok && next == to
}

// GuardTransition: valida a transição e, no caso da conclusão, exige que todos
// os itens estejam resolvidos.
func GuardTransition(list *models.PickingList, to models.ListStatus) error {
	if !CanTransition(list.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, list.Status, to)
	}
	if to == models.StatusConcluido && !CanComplete(list.Items) {
		return ErrIncompleteItems
	}
	return nil
}
