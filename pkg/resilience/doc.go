// Package resilience implements the circuit breaker pattern for fault tolerance.
//
// mudforge's only external dependency in this sense is the data directory
// pkg/persistence writes to: this package lets a run of failing saves
// fail fast instead of retrying into a wedged disk. It enables fast-fail
// behavior when the filesystem becomes unavailable, with automatic
// recovery testing when conditions improve.
//
// # Circuit Breaker Pattern
//
// A circuit breaker operates in three states:
//
//   - Closed: Normal operation, all requests pass through
//   - Open: Service failing, requests fail immediately (fast-fail)
//   - HalfOpen: Testing recovery with limited requests
//
// State transitions:
//
//	Closed → Open: After MaxFailures consecutive failures
//	Open → HalfOpen: After Timeout period expires
//	HalfOpen → Closed: After successful test requests
//	HalfOpen → Open: If test requests fail
//
// # Creating Circuit Breakers
//
// Create a circuit breaker with custom configuration:
//
//	config := resilience.CircuitBreakerConfig{
//	    Name:        "external-api",
//	    MaxFailures: 5,           // Open after 5 failures
//	    Timeout:     30*time.Second, // Wait 30s before testing
//	    MaxRequests: 3,           // Allow 3 test requests in half-open
//	}
//	cb := resilience.NewCircuitBreaker(config)
//
// # Executing Protected Operations
//
// Wrap operations with circuit breaker protection:
//
//	err := cb.Execute(ctx, func(ctx context.Context) error {
//	    return callExternalService()
//	})
//	if errors.Is(err, resilience.ErrCircuitBreakerOpen) {
//	    // Service is down, handle gracefully
//	}
//
// # Pre-configured Breaker
//
// FileSystemConfig is this package's one pre-configured breaker (3
// failures, 10s timeout), used by pkg/integration.FileSystemExecutor to
// wrap every pkg/persistence write. mudforge has no other external
// dependency worth guarding this way — no database, no upstream service —
// so there is no manager coordinating a fleet of breakers, just the one.
//
// # Monitoring
//
// Query circuit breaker state and statistics:
//
//	state := cb.GetState()       // StateClosed, StateOpen, or StateHalfOpen
//	stats := cb.GetStats()       // Failure counts, request counts, timestamps
//
// # Thread Safety
//
// All circuit breaker operations are thread-safe via internal mutex protection.
// Multiple goroutines can safely execute through the same breaker.
package resilience
