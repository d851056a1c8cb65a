package core

// DefaultPoojas is the catalog a new installation starts with. The SQLite
// backend seeds the same list through a migration.
func DefaultPoojas() []Pooja {
	return []Pooja{
		{Name: "ಪಂಚಾಮೃತ ಅಭಿಷೇಕ", Price: Rupees(500)},
		{Name: "ಅಬಿಷೇಕ", Price: Rupees(30)},
		{Name: "ಕರ್ಪೂರ ಆರತಿ", Price: Rupees(20)},
		{Name: "ಅಲಂಕೃತ ಅಬಿಷೇಕ", Price: Rupees(100)},
		{Name: "ಶುಕ್ರವಾರದ ಅಭಿಷೇಕ", Price: Rupees(1500)},
		{Name: "ಶುಕ್ರವಾರದ ಪೂಜಾ ಸೇವೆ", Price: Rupees(5000)},
		{Name: "ಅಲಂಕೃತ ಪೂಜೆ ದಿನಸರಿ", Price: Rupees(500)},
		{Name: "ತೋಮಳೆ ಸೇವೆ", Price: Rupees(1500)},
		{Name: "ಶನಿವಾರದ ಸಪ್ತಸಂಗೀತ", Price: Rupees(9000)},
		{Name: "ಶನಿವಾರದ ಪೂಜಾ ಸೇವೆ", Price: Rupees(5000)},
		{Name: "ತಿಥಿ ಪೂಜಾ", Price: Rupees(100)},
		{Name: "ಸತ್ಯನಾರಾಯಣ ಪೂಜೆ", Price: Rupees(5000)},
		{Name: "ಸಾಮೂಹಿಕ ಸತ್ಯನಾರಾಯಣ ಪೂಜೆ", Price: Rupees(6000)},
		{Name: "ಗಣಹೋಮ", Price: Rupees(500)},
		{Name: "ಸಾಮೂಹಿಕ ಗಣಹೋಮ", Price: Rupees(201)},
		{Name: "ದಿನ ನಿತ್ಯ ಏಕಾದಶ ಸೇವೆ", Price: Rupees(350)},
		{Name: "ಶುಕ್ರವಾರ ಹಾಗೂ ಶನಿವಾರದ ಏಕಾದಶ ಸೇವೆ", Price: Rupees(350)},
		{Name: "ಕಲ್ಯಾಣೋತ್ಸವ", Price: Rupees(35000)},
		{Name: "ಸಾಮೂಹಿಕ ಕಲ್ಯಾಣೋತ್ಸವ", Price: Rupees(3000)},
		{Name: "ಆಂಜನೇಯ ಹೋಮ/ಸಪ್ತಸಂಗೀತ/ಪಾಲಾಂಕಿತ ಸೇವೆ", Price: Rupees(10000)},
		{Name: "ನಾಮಕರಣ", Price: Rupees(201)},
		{Name: "ಉಪನಯನ", Price: Rupees(201)},
		{Name: "ಚೋಳ", Price: Rupees(201)},
		{Name: "ಅಷ್ಟೋತ್ತರ ಅಬಿಷೇಕ", Price: Rupees(201)},
		{Name: "ಅನ್ನಸಂತರ್ಪಣೆ", Price: Rupees(201)},
		{Name: "ವಾಹನ ಪೂಜೆ 2 Wheelers", Price: Rupees(150)},
		{Name: "ವಾಹನ ಪೂಜೆ 4 Wheelers", Price: Rupees(250)},
		{Name: "ವಾಸ್ತು", Price: Rupees(201)},
		{Name: "ಕೃತಿಕ ಮಾಸದ ದೀಪೋತ್ಸವ", Price: Rupees(10000)},
		{Name: "ಆನಂದ ಸೇವೆ", Price: Rupees(500)},
		{Name: "ಹೂವಿನ ಅಲಂಕೃತ ಪೂಜೆ", Price: Rupees(5000)},
		{Name: "ವಾಲ್ಕಾನೃತ್ಯೋತ್ಸವ", Price: Rupees(5000)},
		{Name: "ಬಹೋತ್ಸವ 5 ದಿನಗಳು", Price: Rupees(50000)},
		{Name: "ಮಹೋತ್ಸವ", Price: Rupees(25000)},
		{Name: "ಸರಸ್ವತಿ ಕಲಾಭಿಷೇಕ: 108 ಕಲಶ", Price: Rupees(25000)},
		{Name: "ಚೆನ್ನಪಟ್ನಾಭಿಷೇಕ", Price: Rupees(25000)},
		{Name: "ಅಷ್ಟೋತ್ತರ ಪೂಜೆ: 108 ಬೆಳ್ಳಿ ಹೂವು", Price: Rupees(25000)},
		{Name: "ಶಾಲಾ ಸ್ಥಾಪಿತ ಪೂಜೆ", Price: Rupees(25000)},
	}
}
