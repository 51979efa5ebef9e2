package session

// Ticket identifies one scheduled removal. Only the latest ticket for a task
// can commit.
type Ticket struct {
	TaskID string
	Seq    uint64
}

// Removals tracks tasks marked for deletion while the removal animation
// plays. Mark is immediate; the deletion itself happens on Commit.
type Removals struct {
	seq     uint64
	pending map[string]uint64
}

func NewRemovals() *Removals {
	return &Removals{pending: make(map[string]uint64)}
}

// Mark flags id as pending removal. Marking an already pending task
// supersedes the earlier ticket.
func (r *Removals) Mark(id string) Ticket {
	r.seq++
	r.pending[id] = r.seq
	return Ticket{TaskID: id, Seq: r.seq}
}

// Commit consumes t. ok is false when t was cancelled or superseded.
func (r *Removals) Commit(t Ticket) (string, bool) {
	seq, ok := r.pending[t.TaskID]
	if !ok || seq != t.Seq {
		return "", false
	}
	delete(r.pending, t.TaskID)
	return t.TaskID, true
}

func (r *Removals) Cancel(id string) bool {
	if _, ok := r.pending[id]; !ok {
		return false
	}
	delete(r.pending, id)
	return true
}

func (r *Removals) Pending(id string) bool {
	_, ok := r.pending[id]
	return ok
}

func (r *Removals) Len() int {
	return len(r.pending)
}

// Reset drops every pending ticket.
func (r *Removals) Reset() {
	clear(r.pending)
}
