package wordlist

var fallbackWords = []string{
	"ale", "bez", "być", "czy", "dla", "dom", "gdy", "już", "jak", "jego",
	"jest", "jeden", "jeszcze", "która", "może", "który", "mieć", "nasz", "nie", "najpierw",
	"oraz", "pierwszy", "pod", "przez", "przy", "ponieważ", "który", "się", "swój", "tak",
	"tam", "ten", "teraz", "tylko", "właśnie", "bardzo", "gdzie", "jestem", "można", "musieć",
	"nowy", "podczas", "ponad", "przed", "również", "rzecz", "sposób", "według", "wiele", "właśnie",
	"zawsze", "ziemia", "życie", "świat", "czas", "człowiek", "praca", "system", "grupa", "problem",
	"program", "firma", "produkt", "projekt", "funkcja", "metoda", "wynik", "proces", "przykład", "część",
	"miejsce", "sprawy", "strona", "forma", "droga", "środek", "przypadek", "liczba", "wartość", "stopień",
	"różny", "ostatni", "duży", "mały", "wielki", "nowy", "stary", "dobry", "zły", "czarny",
	"biały", "długi", "krótki", "wysoki", "niski", "szeroki", "wąski", "głęboki", "płytki", "ciężki",
}
