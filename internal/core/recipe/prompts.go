package recipe

// 食物辨識
const (
	foodSystemPrompt = "คุณเป็นผู้ช่วย AI ที่ช่วยตรวจจับอาหารจากภาพ"
	foodMaxTokens    = 100

	foodPrompt = `จากภาพนี้ ช่วยวิเคราะห์และบอกชื่ออาหารที่ปรากฏอยู่ในภาพนี้ให้แม่นยำที่สุด
- ตอบเฉพาะชื่ออาหารที่มั่นใจที่สุดว่าคืออะไร
- เขียนชื่ออาหารเป็นภาษาไทยในรูปแบบ array เช่น ["ข้าวมันไก่"]
- ไม่ต้องบอกส่วนผสมของอาหาร เช่น "ข้าวผัดหมู", "ต้มยำกุ้ง" หรือ "แกงเขียวหวานไก่" ให้ตอลแค่ "ต้มยำ" , "แกงเขียวหวาน"
- ไม่ต้องระบุเครื่องเคียง หรือคำว่า 'ในจานมี' หรือ 'มีส่วนผสม'
- เลือกแค่ 1 ชื่ออาหารที่เด่นและมั่นใจที่สุดจากภาพนี้เท่านั้น
- หากไม่ใช่ภาพอาหารให้ตอบว่า "ไม่สามารถตรวจภาพที่ไม่ใช่อาหารได้"`
)

// 食材辨識
const (
	ingredientSystemPrompt = "คุณเป็นผู้ช่วย AI ที่ช่วยตรวจจับวัตถุดิบจากภาพอาหาร"
	ingredientMaxTokens    = 200

	ingredientPrompt = "บอกชื่อวัตถุดิบที่ปรากฏในภาพเป็นภาษาไทยและภาษาอังกฤษในรูปแบบ array เช่น [[\"ข้าว\", \"ปลา\"], [\"rice\", \"fish\"]]\n" +
		"### ข้อกำหนด:\n" +
		"1. ไม่ต้องระบุจำนวน เช่น ถ้ามีไข่ 3 ฟอง ให้ใส่เพียง \"ไข่\" (egg)\n" +
		"2. ไม่ต้องระบุชนิด เช่น \"ข้าวหอมมะลิ\" หรือ \"ข้าวกล้อง\" ให้ใส่เพียง \"ข้าว\" (rice)\n" +
		"3. เนื้อสัตว์ให้ใส่เฉพาะชื่อ เช่น \"ไก่\" ไม่ต้องใส่ \"เนื้อไก่\"\n" +
		"- **ยกเว้น** เนื้อวัว ให้ใส่เป็น \"เนื้อวัว\" (beef) และเนื้อสัตว์ชนิดพิเศษ เช่น \"เป็ด\" (duck)\n" +
		"4. ผักและผลไม้ให้ใส่ชื่อเฉพาะ เช่น \"แตงโม\" ไม่ต้องใส่ \"ผลแตงโม\"\n" +
		"5. เครื่องปรุงรส เช่น \"น้ำปลา\", \"ซีอิ๊ว\" ให้ใส่ตามชื่อปกติ\n" +
		"6. ถ้าเป็นอาหารที่มีส่วนผสมหลายอย่าง ให้แยกออกเป็นวัตถุดิบเดี่ยว เช่น \"ข้าวผัด\" ต้องแยกเป็น [\"ข้าว\", \"ไข่\", \"น้ำมัน\", \"ซีอิ๊ว\"]\n" +
		"7. ใส่ชื่อภาษาไทยก่อนแล้วตามด้วยภาษาอังกฤษ เช่น [[\"ข้าว\", \"ไข่\"], [\"rice\", \"egg\"]]\n" +
		"8. หากตรวจไม่พบวัตถุดิบ ให้ส่งคืนค่าเป็น `[[\"ไม่สามารถตรวจจับได้\"], [\"unable to detect\"]]`\n" +
		"9. วัตถุดิบที่ผ่านการแปรรูปเล็กน้อย เช่น \"หมูสับ\" ให้ใส่เป็น \"หมู\" (pork) แต่ถ้าเป็นอาหารแปรรูป เช่น \"ไส้กรอก\" ให้คงชื่อเดิม\n" +
		"10. น้ำซุป เช่น \"น้ำซุปกระดูกหมู\" ให้แยกเป็น [\"หมู\", \"น้ำซุป\"]\n" +
		"11. วัตถุดิบแห้ง เช่น \"กุ้งแห้ง\" ให้ใส่เป็น \"กุ้ง\" (shrimp)\n" +
		"12. แยกประเภทของถั่ว เช่น \"ถั่วลิสง\" (peanut), \"อัลมอนด์\" (almond)\n" +
		"13. แยกวัตถุดิบหลักออกจากเครื่องปรุง เช่น \"เกลือ\", \"น้ำตาล\" ให้ใส่ตามชื่อ\n" +
		"14. วัตถุดิบที่ถูกบด เช่น \"กระเทียมบด\" ให้ใส่เป็น \"กระเทียม\" (garlic)\n" +
		"15. วัตถุดิบหายาก เช่น \"ใบมะกรูด\" ให้ใช้ชื่อเดิม (kaffir lime leaf)\n" +
		"16. เส้นอาหาร เช่น \"เส้นก๋วยเตี๋ยว\" ให้ใส่เป็น \"เส้น\" (noodles) และ \"สปาเกตตี\" เป็น \"พาสต้า\" (pasta)\n" +
		"17. หากเป็นวัตถุดิบเดียวกันแต่ต่างรูปแบบ เช่น \"ไข่ต้ม\" หรือ \"ไข่ดาว\" ให้ใส่เป็น \"ไข่\" (egg)\n" +
		"18. ใช้คำทั่วไปเมื่อมีหลายชื่อ เช่น \"ต้นหอม\" แทน \"หอมซอย\"\n" +
		"19. หากไม่สามารถระบุวัตถุดิบได้อย่างชัดเจน ให้คืนค่า `[[\"ไม่สามารถตรวจจับได้\"], [\"unable to detect\"]]`\n" +
		"20. หากไม่ใช่รูปภาพที่เป็นวัตถุดิบให้คืนค่า `[[\"ไม่สามารถตรวจจับรูปที่ไม่ใช่อาหารได้\"],[\"unable to detec\"]]"
)
