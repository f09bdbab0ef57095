package services

// Services defined in this package:
// - CatalogService: course catalog loading, filtering, capacity and statistics
// - CartService: the per-student selection set
// - ScheduleService: weekly grid projection, live push and CSV export
// - RegistrationService: the checkout wizard (validate, pay, finalize)
// - AuthService: simulated login and student registration
// - TranscriptService: graded history and passed courses
// - PreferenceService: dark mode flag
//
// Conflicts, FindConflict and AllConflicts are the pure time conflict rules.
