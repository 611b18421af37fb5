package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).MarginBottom(1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	winningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	losingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	evenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)
)

func statusStyle(s calculations.Status) lipgloss.Style {
	switch s {
	case calculations.StatusWinning:
		return winningStyle
	case calculations.StatusLosing:
		return losingStyle
	default:
		return evenStyle
	}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
