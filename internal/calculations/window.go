package calculations

// AnalyzeSwapWindow находит окно неотрицательной позиции в проекции за один проход.
//
// StartMonth - первый месяц с позицией >= 0. EndMonth - месяц перед следующим уходом
// в минус; месяц окончания договора служит жесткой границей окна. Если окно началось
// после окончания договора и позиция больше не уходила в минус, окно тянется до конца проекции.
// Граница окончания договора применяется только внутри окна: более ранний уход в минус
// закрывает окно раньше, а окно, открывшееся после окончания договора, ею не ограничивается.
func AnalyzeSwapWindow(entries []ProjectionEntry, currentMonth int) SwapWindow {
	w := SwapWindow{StartMonth: -1, EndMonth: -1, PeakMonth: -1}
	if len(entries) == 0 {
		return w
	}

	contractEnd := -1
	reversal := -1
	for i, e := range entries {
		position := e.CashPosition.TradeIn

		if w.PeakMonth < 0 || position > w.PeakEquity {
			w.PeakMonth = i
			w.PeakEquity = position
		}
		if e.IsContractEnd && contractEnd < 0 {
			contractEnd = i
		}

		switch {
		case w.StartMonth < 0 && position >= 0:
			w.StartMonth = i
		case w.StartMonth >= 0 && reversal < 0 && position < 0:
			reversal = i
		}
	}

	if w.StartMonth < 0 {
		return w
	}
	w.Found = true

	w.EndMonth = len(entries) - 1
	if reversal >= 0 {
		w.EndMonth = reversal - 1
	}
	if contractEnd >= w.StartMonth && contractEnd < w.EndMonth {
		w.EndMonth = contractEnd
	}

	w.IsInWindow = w.StartMonth <= currentMonth && currentMonth <= w.EndMonth
	return w
}
