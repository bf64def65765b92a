// Package aggregate derives dashboard figures from debts, payments and budget
// entries that were already loaded for one account.
//
// Every function is pure. Inputs are never modified and no function reads the
// clock; callers pass the reference time explicitly. Ownership filtering is the
// caller's job, the package trusts whatever slice it receives.
package aggregate
