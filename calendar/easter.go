package calendar

import "time"

// Easter returns Easter Sunday for the given year using the anonymous
// Gregorian computus (Meeus/Jones/Butcher). Valid for all Gregorian years.
func Easter(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h+l-7*m+114)%31 + 1)
	return NewDate(year, time.Month(month), day)
}

// GoodFriday is two days before Easter Sunday.
func GoodFriday(year int) Date { return Easter(year).AddDays(-2) }

// EasterMonday is the day after Easter Sunday.
func EasterMonday(year int) Date { return Easter(year).AddDays(1) }
