// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import "github.com/StorkenPb/CategoryPlanner/internal/models"

func labels(en, sv, de, fr, es string) []models.Label {
	return []models.Label{
		{Language: "en", Text: en},
		{Language: "sv", Text: sv},
		{Language: "de", Text: de},
		{Language: "fr", Text: fr},
		{Language: "es", Text: es},
	}
}

// SampleCategories is the development catalogue: three root departments with
// two levels of subcategories, labelled in the five built-in languages.
func SampleCategories() []models.Category {
	return []models.Category{
		{Code: "electronics", Labels: labels("Electronics", "Elektronik", "Elektronik", "Électronique", "Electrónica")},
		{Code: "clothing", Labels: labels("Clothing", "Kläder", "Kleidung", "Vêtements", "Ropa")},
		{Code: "home", Labels: labels("Home & Garden", "Hem & Trädgård", "Haus & Garten", "Maison & Jardin", "Hogar & Jardín")},

		{Code: "phones", Parent: "electronics", Labels: labels("Phones", "Telefoner", "Telefone", "Téléphones", "Teléfonos")},
		{Code: "computers", Parent: "electronics", Labels: labels("Computers", "Datorer", "Computer", "Ordinateurs", "Computadoras")},
		{Code: "audio", Parent: "electronics", Labels: labels("Audio & Video", "Ljud & Bild", "Audio & Video", "Audio & Vidéo", "Audio & Video")},

		{Code: "smartphones", Parent: "phones", Labels: labels("Smartphones", "Smartphones", "Smartphones", "Smartphones", "Smartphones")},
		{Code: "accessories", Parent: "phones", Labels: labels("Phone Accessories", "Telefonaccessoarer", "Telefonzubehör", "Accessoires téléphone", "Accesorios telefónicos")},

		{Code: "laptops", Parent: "computers", Labels: labels("Laptops", "Bärbara datorer", "Laptops", "Ordinateurs portables", "Laptops")},
		{Code: "desktops", Parent: "computers", Labels: labels("Desktop Computers", "Stationära datorer", "Desktop-Computer", "Ordinateurs de bureau", "Computadoras de escritorio")},
		{Code: "components", Parent: "computers", Labels: labels("Computer Components", "Datorkomponenter", "Computer-Komponenten", "Composants informatiques", "Componentes de computadora")},

		{Code: "mens", Parent: "clothing", Labels: labels("Men's Clothing", "Herrkläder", "Herrenkleidung", "Vêtements hommes", "Ropa de hombre")},
		{Code: "womens", Parent: "clothing", Labels: labels("Women's Clothing", "Damkläder", "Damenkleidung", "Vêtements femmes", "Ropa de mujer")},
		{Code: "kids", Parent: "clothing", Labels: labels("Kids' Clothing", "Barnkläder", "Kinderkleidung", "Vêtements enfants", "Ropa infantil")},

		{Code: "furniture", Parent: "home", Labels: labels("Furniture", "Möbler", "Möbel", "Meubles", "Muebles")},
		{Code: "kitchen", Parent: "home", Labels: labels("Kitchen & Dining", "Kök & Matsal", "Küche & Esszimmer", "Cuisine & Salle à manger", "Cocina & Comedor")},
		{Code: "garden", Parent: "home", Labels: labels("Garden", "Trädgård", "Garten", "Jardin", "Jardín")},
	}
}
