package resolver

import "github.com/iudanet/syncbox/internal/models"

// Policy решает, как разрешить конфликт: запись пришла с base_version,
// отстающим от текущей серверной версии.
//
// Политика получает пришедшую запись и актуальное серверное состояние и
// возвращает способ разрешения. Сам разрешённый результат применяет
// Resolver, политика только выбирает исход.
type Policy interface {
	Resolve(entry *models.OutboxEntry, current *models.Record) models.Resolution
}

// ArrivalOrderLWW is the default policy: the write that reaches the server
// last wins, regardless of client clocks. Client timestamps are never
// consulted, so skewed or adjusted clocks cannot reorder history.
type ArrivalOrderLWW struct{}

// Resolve always lets the incoming write overwrite the stored state.
func (ArrivalOrderLWW) Resolve(_ *models.OutboxEntry, _ *models.Record) models.Resolution {
	return models.ResolutionClientWins
}

// PreserveServer is the opposite stance: the stored state stays, the
// incoming write is recorded as a losing conflict. Useful for datasets
// where the server side is curated by hand.
type PreserveServer struct{}

// Resolve keeps the server state.
func (PreserveServer) Resolve(_ *models.OutboxEntry, _ *models.Record) models.Resolution {
	return models.ResolutionServerWins
}
