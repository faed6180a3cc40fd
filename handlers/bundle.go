package handlers

// HandlerBundle groups all HTTP handlers so route registration takes a single
// dependency.
type HandlerBundle struct {
	Scheduling   *SchedulingHandler
	Availability *AvailabilityHandler
	Professional *ProfessionalHandler
	Refund       *RefundHandler
	Policy       *PolicyHandler
}
