package memory

// deleteUser removes a user, leaving their notices in place.
func (r *UserRepository) deleteUser(id string) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.users[id]
	if !ok {
		return false
	}
	delete(r.s.emails, rec.user.Email)
	delete(r.s.users, id)
	return true
}
