// Package casebook is the composition root for the casebook record store.
//
// casebook keeps image-analysis "cases" and free-form "notes" for opaque user
// identities in a small local key space, and renders cases as plain-text or
// PDF reports. The key space sits behind core.Backend, so the same records can
// live in a directory of files, a SQLite database or memory.
//
// Features:
//
//   - **Per-owner collections**: every list is filtered by owner, newest first.
//   - **Safe writes**: a failed write (quota, validation, I/O) never changes what is stored.
//   - **Forgiving reads**: corrupt data reads as empty unless strict decoding is on.
//   - **Reports**: text and A4 PDF export with the analyzed image embedded.
//   - **Watch**: the filesystem adapter reports changes made by other processes.
//
// Usage:
//
//	svc, err := casebook.Open("./cases",
//		casebook.WithAdapter("sqlite"),
//		casebook.WithLogger(logger),
//	)
//	defer svc.Close()
//
//	c, err := svc.Cases.Create(ctx, "user-1", "Kitchen", imageRef, objects, description)
//	pdf, err := export.Document(c, time.Now())
package casebook
