package herbs

var herbRepository = &HerbRepository{}

func GetHerbRepository() *HerbRepository {
	return herbRepository
}
