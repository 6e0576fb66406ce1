// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

// Package tracker contains the classroom progress domain: classroom and
// progress models, the ownership policy that scopes what each principal
// may see or change, and the services that enforce it.
//
// Every operation that touches classroom or progress state goes through
// ClassroomService or ProgressService, and both consult the Policy before
// reading or writing. There is no other path to the repositories.
package tracker
