// Package phone normalizes and formats Iranian mobile numbers for display.
package phone
