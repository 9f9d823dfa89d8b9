package sync

// State описывает текущую фазу цикла синхронизации.
//
// Переходы: Idle → Pushing → AwaitingPushResult → Pulling →
// AwaitingPullResult → Idle. Из обоих Awaiting состояний при сетевой ошибке
// достижим Backoff, после задержки возврат в то состояние, где случился сбой.
type State string

const (
	StateIdle               State = "idle"
	StatePushing            State = "pushing"
	StateAwaitingPushResult State = "awaiting_push_result"
	StatePulling            State = "pulling"
	StateAwaitingPullResult State = "awaiting_pull_result"
	StateBackoff            State = "backoff"
)
