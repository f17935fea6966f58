package replenishment

type CreateReplenishmentDTO struct {
	VoucherIDs []int64 `json:"voucher_ids"`
}

func (dto CreateReplenishmentDTO) Validate() error {
	if len(dto.VoucherIDs) == 0 {
		return ErrNoVouchers
	}
	return nil
}

// UniqueVoucherIDs returns the id set with duplicates removed, preserving
// order.
func (dto CreateReplenishmentDTO) UniqueVoucherIDs() []int64 {
	seen := make(map[int64]bool, len(dto.VoucherIDs))
	ids := make([]int64, 0, len(dto.VoucherIDs))
	for _, id := range dto.VoucherIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
