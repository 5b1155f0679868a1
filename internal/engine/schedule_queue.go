package engine

import "container/heap"

// Registration - периодический шаг роли в планировщике
type Registration struct {
	Name     string
	PeriodMs int64
	DueMs    int64 // Когда сработать в следующий раз. Чем меньше, тем раньше.

	seq   uint64 // Порядок регистрации, разрешает ничьи по DueMs
	Index int    // Индекс в куче (нужен для update)
	step  StepFunc
}

// scheduleQueue реализует heap.Interface и хранит регистрации
type scheduleQueue []*Registration

func (pq scheduleQueue) Len() int { return len(pq) }

func (pq scheduleQueue) Less(i, j int) bool {
	// MinHeap по времени, при равенстве - кто раньше зарегистрировался
	if pq[i].DueMs != pq[j].DueMs {
		return pq[i].DueMs < pq[j].DueMs
	}
	return pq[i].seq < pq[j].seq
}

func (pq scheduleQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *scheduleQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*Registration)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *scheduleQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}

// update изменяет время срабатывания элемента в очереди
func (pq *scheduleQueue) update(item *Registration, due int64) {
	item.DueMs = due
	heap.Fix(pq, item.Index)
}
